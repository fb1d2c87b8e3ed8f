package domain

type PresetItem struct {
	Category BagCategory
	Name     string
}

// Presets seeds a user's empty checklist, in display order.
var Presets = []PresetItem{
	{BagMom, "Maternity pads"},
	{BagMom, "Nursing bras"},
	{BagMom, "Comfortable pajamas"},
	{BagMom, "Slippers"},
	{BagMom, "Toiletries"},
	{BagMom, "Phone charger"},
	{BagMom, "Snacks and water bottle"},
	{BagBaby, "Newborn diapers"},
	{BagBaby, "Baby wipes"},
	{BagBaby, "Bodysuits"},
	{BagBaby, "Swaddle blanket"},
	{BagBaby, "Hat and socks"},
	{BagBaby, "Car seat"},
	{BagDocuments, "ID card"},
	{BagDocuments, "Insurance card"},
	{BagDocuments, "Prenatal records"},
	{BagDocuments, "Birth plan"},
}

// NextSortOrder is one past the highest order in items.
func NextSortOrder(items []HospitalBagItem) int {
	next := 0
	for _, it := range items {
		if it.SortOrder >= next {
			next = it.SortOrder + 1
		}
	}
	return next
}
