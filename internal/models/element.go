package models

// Visual element types. Order in Template.VisualElements is render order.
const (
	ElementHeader         = "header"
	ElementLogo           = "logo"
	ElementText           = "text"
	ElementStatistics     = "statistics"
	ElementRecordCount    = "record-count"
	ElementDateRange      = "date-range"
	ElementDataTable      = "datatable"
	ElementDownloadButton = "download-button"
	ElementMoreRecords    = "more-records"
	ElementDivider        = "divider"
	ElementSpacer         = "spacer"
	ElementIcon           = "icon"
	ElementRow            = "row"
	ElementFooter         = "footer"
	ElementGraph          = "graph"
)

// VisualElement is one block in a template's ordered layout. The set of
// meaningful fields depends on Type; like WidgetConfig, validity per type is
// enforced by the service layer, not the document shape. ID is unique within
// a template and feeds derived placeholder keys.
type VisualElement struct {
	ID   string `firestore:"id" json:"id"`
	Type string `firestore:"type" json:"type"`

	// text-bearing elements (header, text, footer, more-records)
	Text string `firestore:"text,omitempty" json:"text,omitempty"`

	// shared display options
	Size      string `firestore:"size,omitempty" json:"size,omitempty"`
	Alignment string `firestore:"alignment,omitempty" json:"alignment,omitempty"`
	Color     string `firestore:"color,omitempty" json:"color,omitempty"`
	Height    int    `firestore:"height,omitempty" json:"height,omitempty"`
	Width     int    `firestore:"width,omitempty" json:"width,omitempty"`

	// statistics cards
	StatisticIDs       []string `firestore:"statisticIds,omitempty" json:"statisticIds,omitempty"`
	ValueSize          string   `firestore:"valueSize,omitempty" json:"valueSize,omitempty"`
	ValueAlignment     string   `firestore:"valueAlignment,omitempty" json:"valueAlignment,omitempty"`
	ContainerWidth     string   `firestore:"containerWidth,omitempty" json:"containerWidth,omitempty"`
	ContainerAlignment string   `firestore:"containerAlignment,omitempty" json:"containerAlignment,omitempty"`

	// datatable
	Fields  []string `firestore:"fields,omitempty" json:"fields,omitempty"`
	MaxRows int      `firestore:"maxRows,omitempty" json:"maxRows,omitempty"`

	// graph
	ChartType  string `firestore:"chartType,omitempty" json:"chartType,omitempty"` // bar|line|pie
	LabelField string `firestore:"labelField,omitempty" json:"labelField,omitempty"`
	DataField  string `firestore:"dataField,omitempty" json:"dataField,omitempty"`
	Operation  string `firestore:"operation,omitempty" json:"operation,omitempty"` // sum|mean|count
	MaxItems   int    `firestore:"maxItems,omitempty" json:"maxItems,omitempty"`
	ShowLegend bool   `firestore:"showLegend,omitempty" json:"showLegend,omitempty"`
	Title      string `firestore:"title,omitempty" json:"title,omitempty"`

	// icon / row
	Icon  string     `firestore:"icon,omitempty" json:"icon,omitempty"`
	Icons []IconSpec `firestore:"icons,omitempty" json:"icons,omitempty"`
}

// IconSpec is one entry of a row element: an icon with a caption.
type IconSpec struct {
	Name    string `firestore:"name" json:"name"`
	Caption string `firestore:"caption,omitempty" json:"caption,omitempty"`
}
