package testutil

import "sdchassis.be/web/internal/backend"

// FixtureSet is the data served by the stub backend.
type FixtureSet struct {
	ChassisTypes []backend.ChassisType
	Realisations []backend.Realisation
	Catalogues   []backend.Catalogue
	Categories   []string
}

// Fixtures returns a small realistic catalogue of the business.
func Fixtures() FixtureSet {
	return FixtureSet{
		ChassisTypes: []backend.ChassisType{
			{ID: "pvc", Name: "Châssis PVC", Description: "Isolation thermique et entretien minimal", ImageURL: "https://images.example.com/pvc.jpg", Features: []string{"Double vitrage", "Uw 1,1"}, PriceRange: "€€"},
			{ID: "alu", Name: "Châssis Aluminium", Description: "Profils fins et grandes baies", ImageURL: "https://images.example.com/alu.jpg", Features: []string{"Coulissant", "RAL au choix"}, PriceRange: "€€€"},
			{ID: "bois", Name: "Châssis Bois", Description: "Le charme du bois massif", ImageURL: "https://images.example.com/bois.jpg", Features: []string{"Chêne", "Meranti"}, PriceRange: "€€€"},
			{ID: "mixte", Name: "Châssis Bois-Alu", Description: "Bois à l'intérieur, aluminium à l'extérieur", Features: []string{"Hybride"}, PriceRange: "€€€€"},
		},
		Realisations: []backend.Realisation{
			{ID: "r1", Title: "Villa à Namur", Location: "Namur", Description: "Remplacement complet en PVC", ProjectType: "Résidentiel", CompletionDate: "2024-03-15", Images: []string{"https://images.example.com/r1-a.jpg", "https://images.example.com/r1-b.jpg"}},
			{ID: "r2", Title: "Commerce à Andenne", Location: "Andenne", Description: "Vitrine aluminium", ProjectType: "Commercial", CompletionDate: "2024-01", Images: []string{"https://images.example.com/r2.jpg"}},
			{ID: "r3", Title: "Maison de maître", Location: "Sambreville", Description: "Rénovation en bois", ProjectType: "Rénovation", CompletionDate: "Printemps 2023"},
			{ID: "r4", Title: "Nouvelle construction", Location: "Auvelais", Description: "Châssis Bois-Alu", ProjectType: "Neuf", CompletionDate: "2023-09-01"},
		},
		Catalogues: []backend.Catalogue{
			{ID: "c1", Title: "Gamme PVC 2024", Category: "PVC", Description: "Profils et vitrages", PDFURL: "https://docs.example.com/pvc.pdf"},
			{ID: "c2", Title: "Gamme Aluminium", Category: "Aluminium", Description: "Systèmes coulissants", PDFURL: "https://docs.example.com/alu.pdf"},
			{ID: "c3", Title: "Portes PVC", Category: "PVC", Description: "Portes d'entrée", PDFURL: "javascript:alert(1)"},
		},
		Categories: []string{"PVC", "Aluminium"},
	}
}
