package content

const (
	CollectionProjects       = "projects"
	CollectionExperiences    = "experiences"
	CollectionSkills         = "skills"
	CollectionTestimonials   = "testimonials"
	CollectionCertifications = "certifications"
	CollectionEducation      = "education"
	CollectionServices       = "services"

	CollectionSettings  = "settings"
	CollectionAnalytics = "analytics"
	CollectionUsers     = "users"

	PathPersonalInfo = CollectionSettings + "/personalInfo"
	PathAnalytics    = CollectionAnalytics + "/stats"
	PathLastBackup   = CollectionSettings + "/lastBackup"
)

// Collections is the traversal order used by full uploads. Changing a seed key
// means changing this list.
var Collections = []string{
	CollectionProjects,
	CollectionExperiences,
	CollectionSkills,
	CollectionTestimonials,
	CollectionCertifications,
	CollectionEducation,
	CollectionServices,
}

func IsKnownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}
