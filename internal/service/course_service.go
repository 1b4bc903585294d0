package service

import (
	"github.com/stempro/academy-api/internal/models"
	appErrors "github.com/stempro/academy-api/pkg/errors"
)

// The catalog is static site content, not stored data.
var catalogCourses = []models.Course{
	{
		ID:          "junior-ai",
		Name:        "Junior AI Program",
		Description: "AI and Programming In Action - For Middle & High School Students",
		Duration:    "6 weeks (12 lesson hours)",
		MaxStudents: 8,
		Level:       "beginner",
	},
	{
		ID:          "generative-ai",
		Name:        "Generative AI Program",
		Description: "Generative AI Education for Middle Graders",
		Duration:    "6 weeks (12 lesson hours)",
		MaxStudents: 5,
		Level:       "intermediate",
	},
	{
		ID:          "advanced-ai",
		Name:        "Advanced Generative AI Program",
		Description: "Advanced Generative AI Education for High School Students",
		Duration:    "8 weeks (16 lesson hours)",
		MaxStudents: 5,
		Level:       "advanced",
	},
}

var catalogPrograms = []models.Program{
	{
		ID:          "college-ninja",
		Name:        "CollegeNinja: Code-to-Campus",
		Description: "Master College Applications with AI & Programming",
		Duration:    "Flexible",
		MaxStudents: 8,
		Type:        "program",
	},
	{
		ID:          "junior-researcher",
		Name:        "Junior Researcher Program",
		Description: "High-Impact Research Mentorship",
		Duration:    "Flexible",
		MaxStudents: 1,
		Type:        "program",
	},
	{
		ID:          "interview-clinic",
		Name:        "Interview Clinic",
		Description: "Mastering Interviews for Internships, Jobs, and Admissions",
		Duration:    "On-demand",
		MaxStudents: 1,
		Type:        "program",
	},
}

// CourseService serves the static course and program catalog.
type CourseService struct{}

// NewCourseService constructs a CourseService instance.
func NewCourseService() *CourseService {
	return &CourseService{}
}

// Catalog returns all courses and programs.
func (s *CourseService) Catalog() models.Catalog {
	return models.Catalog{Courses: catalogCourses, Programs: catalogPrograms}
}

// Course returns a single course by identifier.
func (s *CourseService) Course(id string) (*models.Course, error) {
	for _, c := range catalogCourses {
		if c.ID == id {
			course := c
			return &course, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

// Program returns a single program by identifier.
func (s *CourseService) Program(id string) (*models.Program, error) {
	for _, p := range catalogPrograms {
		if p.ID == id {
			program := p
			return &program, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
}
