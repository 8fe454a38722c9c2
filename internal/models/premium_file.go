package models

// PremiumFile — элемент статического каталога премиум-файлов.
// Каталог задаётся в коде: идентификаторы — закрытый список,
// пользовательский ввод никогда не превращается в путь на диске.
type PremiumFile struct {
	ID       string `json:"id"`
	Filename string `json:"-"`
	Title    string `json:"title"`
	Type     string `json:"type"` // pdf|docx
}
