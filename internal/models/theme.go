package models

// Theme is the flat set of color/typography/layout tokens applied to a
// compiled template. A theme is merged with defaults before rendering so no
// token is ever empty at compile time.
type Theme struct {
	PrimaryColor      string `firestore:"primaryColor,omitempty" json:"primaryColor,omitempty"`
	SecondaryColor    string `firestore:"secondaryColor,omitempty" json:"secondaryColor,omitempty"`
	AccentColor       string `firestore:"accentColor,omitempty" json:"accentColor,omitempty"`
	TextColor         string `firestore:"textColor,omitempty" json:"textColor,omitempty"`
	MutedTextColor    string `firestore:"mutedTextColor,omitempty" json:"mutedTextColor,omitempty"`
	BackgroundColor   string `firestore:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	BorderColor       string `firestore:"borderColor,omitempty" json:"borderColor,omitempty"`
	FontFamily        string `firestore:"fontFamily,omitempty" json:"fontFamily,omitempty"`
	FontSize          string `firestore:"fontSize,omitempty" json:"fontSize,omitempty"`
	HeaderFontSize    string `firestore:"headerFontSize,omitempty" json:"headerFontSize,omitempty"`
	SubHeaderFontSize string `firestore:"subHeaderFontSize,omitempty" json:"subHeaderFontSize,omitempty"`
	BorderRadius      string `firestore:"borderRadius,omitempty" json:"borderRadius,omitempty"`
}
