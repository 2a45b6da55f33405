package dto

type ExportInput struct {
	Format string
}

type ExportOutput struct {
	FileName string
	Format   string
	Content  []byte
	Sessions int
}

type ImportInput struct {
	Document []byte
}

type ImportOutput struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}
