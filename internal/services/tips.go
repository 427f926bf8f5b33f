package services

import "math/rand/v2"

// savingTips are the rotating one-liners shown on the dashboard.
var savingTips = []string{
	"Evite gastos supérfluos.",
	"Use planilhas para controlar seu orçamento.",
	"Compare preços antes de comprar.",
	"Tenha uma reserva de emergência.",
	"Acompanhe seus gastos semanalmente.",
}

// RandomSavingTip picks one tip.
func RandomSavingTip() string {
	return savingTips[rand.IntN(len(savingTips))]
}
