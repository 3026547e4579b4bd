package entity

const SectionTypeText = "text"

type AboutSection struct {
	SectionType string  `json:"section_type" db:"section_type"`
	Title       string  `json:"title" db:"title"`
	Content     string  `json:"content" db:"content"`
	Image       *string `json:"image" db:"image"`
}

type Statistics struct {
	TotalKaryawan   int64 `json:"totalKaryawan"`
	TotalPerusahaan int64 `json:"totalPerusahaan"`
	TotalCabang     int64 `json:"totalCabang"`
}
