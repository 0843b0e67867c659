package models

import "time"

// Template is an org's notification email template configuration stored in
// Firestore. It is the unit of load/save: unknown keys on the document are
// preserved by the store layer (Extra) so older or newer clients can add
// fields without this service stripping them on re-save.
type Template struct {
	TemplateID     string          `firestore:"templateId" json:"templateId"`
	Name           string          `firestore:"name" json:"name"`
	HTML           string          `firestore:"html" json:"html"`
	IncludeCSV     bool            `firestore:"includeCSV" json:"includeCSV"`
	Theme          Theme           `firestore:"theme" json:"theme"`
	Branding       Branding        `firestore:"branding" json:"branding"`
	Statistics     []Statistic     `firestore:"statistics" json:"statistics"`
	VisualElements []VisualElement `firestore:"visualElements" json:"visualElements"`
	DataSource     DataSource      `firestore:"dataSource" json:"dataSource"`
	CreatedAt      time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `firestore:"updatedAt" json:"updatedAt"`

	// Extra holds document keys this version of the service does not model.
	// Managed by the store; round-trips on save.
	Extra map[string]any `firestore:"-" json:"-"`
}

// Branding carries per-org presentation values substituted into templates.
type Branding struct {
	OrganizationName string `firestore:"organizationName,omitempty" json:"organizationName,omitempty"`
	NotificationName string `firestore:"notificationName,omitempty" json:"notificationName,omitempty"`
	LogoURL          string `firestore:"logoUrl,omitempty" json:"logoUrl,omitempty"`
}

// DataSource points at the remote feature service backing a template's live
// data. Username/Password, when set, are forwarded to the proxy; the stored
// password is KMS-encrypted at rest.
type DataSource struct {
	Endpoint string `firestore:"endpoint,omitempty" json:"endpoint,omitempty"`
	Username string `firestore:"username,omitempty" json:"username,omitempty"`
	Password string `firestore:"password,omitempty" json:"password,omitempty"`

	// FromOrg marks credentials hydrated from the org-level account at load
	// time. They belong to Secret Manager and are never written back onto
	// the template document.
	FromOrg bool `firestore:"-" json:"-"`
}
