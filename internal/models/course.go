package models

// Course describes a catalog course offering.
type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	MaxStudents int    `json:"max_students"`
	Level       string `json:"level"`
}

// Program describes a catalog mentorship program.
type Program struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	MaxStudents int    `json:"max_students"`
	Type        string `json:"type"`
}

// Catalog bundles the full course and program listing.
type Catalog struct {
	Courses  []Course  `json:"courses"`
	Programs []Program `json:"programs"`
}
