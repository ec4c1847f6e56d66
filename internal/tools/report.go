package tools

import (
	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/narrative"
	"github.com/HendryAvila/dossier/internal/templates"
)

// unclassified is shown when nothing scored.
const unclassified = "Unclassified"

// dossierData turns a graded result into the dossier screen.
func dossierData(eng *engine.Engine, sessionID string, r engine.Result) templates.DossierData {
	cat := eng.Catalog()
	data := templates.DossierData{
		SessionID:   sessionID,
		LeadingName: unclassified,
		Ranking:     standingViews(cat, r.Profile.Ranking),
		Hybrid:      r.Profile.Hybrid,
		Clearance:   r.Profile.Clearance,
		Chaos:       r.Chaos,
	}

	if lead := r.Profile.Leading(); lead != "" {
		data.LeadingName = cat.CategoryName(lead)
		for _, c := range cat.Categories {
			if c.Code == lead {
				data.LeadingDescription = c.Description
			}
		}
	}
	if h := r.Profile.Hybrid; h.Detected {
		data.HybridNames = cat.CategoryName(h.Primary) + " / " + cat.CategoryName(h.Secondary)
	}
	if r.Profile.Theme != nil {
		data.ThemeName = r.Profile.Theme.Name
	}

	for _, code := range r.Traits.Codes {
		pct := r.Traits.Percent(code)
		data.Traits = append(data.Traits, templates.TraitView{
			Name:    cat.TraitName(code),
			Percent: pct,
			Level:   string(traitLevel(r.Highlights, code)),
		})
	}
	return data
}

// traitLevel reads a trait's level from the highlights; anything not
// highlighted is medium.
func traitLevel(highlights []narrative.Highlight, code string) narrative.Level {
	for _, h := range highlights {
		if h.Code == code {
			return h.Level
		}
	}
	return narrative.LevelMedium
}
