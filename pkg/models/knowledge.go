package models

// KnowledgeEntry maps a known phrase to a fixed answer.
type KnowledgeEntry struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Answer string `yaml:"answer" json:"answer"`
}
