package domain

import "slices"

const DefaultBrochure = "general-brochure.pdf"

var courseBrochures = map[string]string{
	"PLM Windchill":       "plm-windchill-brochure.pdf",
	"Siemens Teamcenter":  "siemens-teamcenter-brochure.pdf",
	"Cloud Solutions":     "cloud-solutions-brochure.pdf",
	"Web Development":     "web-development-brochure.pdf",
	"Data Science":        "data-science-brochure.pdf",
	"Mobile Development":  "mobile-development-brochure.pdf",
	"DevOps":              "devops-brochure.pdf",
	"AI/Machine Learning": "ai-ml-brochure.pdf",
	"Cybersecurity":       "cybersecurity-brochure.pdf",
	"Cloud Computing":     "cloud-computing-brochure.pdf",
	"Other":               DefaultBrochure,
}

// Courses lists the catalogue in display order.
var Courses = []string{
	"PLM Windchill",
	"Siemens Teamcenter",
	"Cloud Solutions",
	"Web Development",
	"Data Science",
	"Mobile Development",
	"DevOps",
	"AI/Machine Learning",
	"Cybersecurity",
	"Cloud Computing",
	"Other",
}

func IsCourse(name string) bool {
	return slices.Contains(Courses, name)
}

// BrochureFile maps a course to its brochure; unknown courses get the general one.
func BrochureFile(course string) string {
	if f, ok := courseBrochures[course]; ok {
		return f
	}
	return DefaultBrochure
}
