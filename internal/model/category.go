package model

import "strings"

// Category is the relationship type chosen at the start of the wizard.
// It drives the question pools, the prompt and the particle geometry.
type Category string

const (
	CategoryAffection  Category = "Affection"
	CategoryFriendship Category = "Friendship"
	CategoryKinship    Category = "Kinship"
	CategoryRivalry    Category = "Rivalry"
)

// DefaultCategory is selected when a wizard starts or is reset.
const DefaultCategory = CategoryAffection

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{CategoryAffection, CategoryFriendship, CategoryRivalry, CategoryKinship}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAffection, CategoryFriendship, CategoryKinship, CategoryRivalry:
		return true
	}
	return false
}

// ParseCategory maps user input onto a Category. The older labels
// "Love" and "Family" are accepted as aliases.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "affection", "love":
		return CategoryAffection, true
	case "friendship":
		return CategoryFriendship, true
	case "kinship", "family":
		return CategoryKinship, true
	case "rivalry":
		return CategoryRivalry, true
	}
	return "", false
}

// CategoryInfo is display information for the category picker.
type CategoryInfo struct {
	ID    Category `json:"id"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
}

// GetCategoryInfo returns the picker entries in display order.
func GetCategoryInfo() []CategoryInfo {
	return []CategoryInfo{
		{ID: CategoryAffection, Label: "حب", Icon: "heart"},
		{ID: CategoryFriendship, Label: "صداقة", Icon: "users"},
		{ID: CategoryRivalry, Label: "منافسة", Icon: "swords"},
		{ID: CategoryKinship, Label: "عائلة", Icon: "baby"},
	}
}
