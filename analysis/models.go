package analysis

type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

var knownModels = []ModelInfo{
	{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Description: "Most capable multimodal model"},
	{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Description: "Fast and efficient model"},
	{ID: "gemini-1.0-pro", Name: "Gemini 1.0 Pro", Description: "Previous generation model"},
}

// Models lists the selectable Gemini models and marks the configured one. A
// configured model outside the catalogue is listed first.
func Models(configured string) []ModelInfo {
	models := make([]ModelInfo, 0, len(knownModels)+1)
	found := false
	for _, m := range knownModels {
		if m.ID == configured {
			m.Default = true
			found = true
		}
		models = append(models, m)
	}
	if !found && configured != "" {
		models = append([]ModelInfo{{ID: configured, Name: configured, Default: true}}, models...)
	}
	return models
}
