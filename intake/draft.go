package intake

// Contact is a primary or billing contact on a draft. NoContact collapses the
// three text fields: they are cleared and dropped from validation.
type Contact struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	NoContact bool   `json:"noContact"`
}

// PricingItem is one spreadsheet column mapped to a priced service. Field
// casing matches the persisted site documents, so the JSON tags are uneven on
// purpose.
type PricingItem struct {
	ID       string  `json:"id"`
	Column   string  `json:"column"`
	Name     string  `json:"Name"`
	Price    float64 `json:"Price"`
	Service  string  `json:"Service"`
	AddlInfo string  `json:"AddlInfo"`
	Unit     string  `json:"Unit"`
	Volume   string  `json:"Volume"`
}

// DocumentRef points at an uploaded file in blob storage.
type DocumentRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ActivityEntry is one line of a record's append-only activity log. Date is
// epoch milliseconds.
type ActivityEntry struct {
	Date   int64  `json:"date"`
	User   string `json:"user"`
	Action string `json:"action"`
}

// Draft is the in-progress handoff being filled in. It owns every intake
// field; subcomponents of the form read snapshots and mutate through the
// narrow setters below rather than sharing the struct.
type Draft struct {
	Client                    string      `json:"client"`
	Address                   string      `json:"address"`
	Lat                       float64     `json:"lat"`
	Lng                       float64     `json:"lng"`
	NewClient                 bool        `json:"newClient"`
	ServiceLine               ServiceLine `json:"serviceLine"`
	ServiceType               string      `json:"serviceType"`
	Software                  string      `json:"software"`
	NewSoftwareName           string      `json:"newSoftwareName"`
	Contact                   Contact     `json:"contact"`
	BillingContact            Contact     `json:"billingContact"`
	Renewal                   string      `json:"renewal"`
	Duration                  string      `json:"duration"`
	AnnualEscalation          string      `json:"annualEscalation"`
	StartDate                 string      `json:"startDate"`
	EndDate                   string      `json:"endDate"`
	PaymentTerms              string      `json:"paymentTerms"`
	PaymentMethod             string      `json:"paymentMethod"`
	ThirdPartyPaymentProvider string      `json:"thirdPartyPaymentProvider"`
	InvoicingDirections       string      `json:"invoicingDirections"`
	Status                    string      `json:"status"`
}

// Renewal types.
const (
	RenewalAuto  = "Auto-Renewing"
	RenewalFixed = "Fixed Term"
)

// Payment methods.
const (
	PaymentACH        = "ACH"
	PaymentCheck      = "Check"
	PaymentWire       = "Wire"
	PaymentThirdParty = "3rd Party"
)

// NewDraft returns a draft with the form's mount-time defaults: Snow service
// line, "No Portal" software, auto-renewing contract, Pending status. The
// service type is derived from the default line, same as on every line change.
func NewDraft() *Draft {
	d := &Draft{
		ServiceLine: ServiceLine{ID: 2, Name: "Snow", Pricing: []PricingItem{}},
		Software:    "No Portal",
		Renewal:     RenewalAuto,
		Status:      "Pending",
	}
	d.ServiceType = ServiceTypesFor(d.ServiceLine.Name)[0]
	return d
}

// SetServiceLine switches the draft's service line and re-derives the service
// type: if the currently selected type is not available on the new line it is
// reset to the new line's first type.
func (d *Draft) SetServiceLine(line ServiceLine) {
	d.ServiceLine = line
	types := ServiceTypesFor(line.Name)
	if !contains(types, d.ServiceType) {
		d.ServiceType = types[0]
	}
}

// AvailableServiceTypes returns the billing cadences valid for the draft's
// current service line.
func (d *Draft) AvailableServiceTypes() []string {
	return ServiceTypesFor(d.ServiceLine.Name)
}

// AvailableServices returns the priced services selectable for pricing
// columns under the draft's current service line.
func (d *Draft) AvailableServices() []string {
	return ServicesFor(d.ServiceLine.Name)
}

// SetContact replaces the primary contact, clearing the text fields when
// NoContact is set.
func (d *Draft) SetContact(c Contact) {
	d.Contact = collapseContact(c)
}

// SetBillingContact replaces the billing contact with the same collapsing
// rule as SetContact.
func (d *Draft) SetBillingContact(c Contact) {
	d.BillingContact = collapseContact(c)
}

// Reset restores the draft to its mount-time defaults.
func (d *Draft) Reset() {
	*d = *NewDraft()
}

func collapseContact(c Contact) Contact {
	if c.NoContact {
		return Contact{NoContact: true}
	}
	return c
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
