package intake

import (
	"reflect"
	"testing"
)

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()

	if d.ServiceLine.Name != "Snow" || d.ServiceLine.ID != 2 {
		t.Errorf("default service line = %q (id %d), expected Snow (id 2)", d.ServiceLine.Name, d.ServiceLine.ID)
	}
	if d.ServiceType != "Per Event" {
		t.Errorf("default service type = %q, expected Per Event", d.ServiceType)
	}
	if d.Software != "No Portal" {
		t.Errorf("default software = %q, expected No Portal", d.Software)
	}
	if d.Renewal != RenewalAuto {
		t.Errorf("default renewal = %q, expected %q", d.Renewal, RenewalAuto)
	}
	if d.Status != "Pending" {
		t.Errorf("default status = %q, expected Pending", d.Status)
	}
	if d.NewClient {
		t.Error("newClient should default to false")
	}
}

func TestServiceTypesFor(t *testing.T) {
	tests := []struct {
		line     string
		expected []string
	}{
		{"Snow", []string{"Per Event", "Per Season", "Per Push"}},
		{"Janitorial", []string{"Per Service"}},
		{"Landscaping", []string{"Per Service"}},
		{"Lot Sweeping", []string{"Per Service"}},
		{"On Demand", []string{"1 Time Service"}},
		{"Landscape Construction", []string{"Per Event"}},
		{"Something Unknown", []string{"Per Event"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ServiceTypesFor(tt.line)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ServiceTypesFor(%q) = %v, expected %v", tt.line, got, tt.expected)
			}
		})
	}
}

func TestSetServiceLineRederivesServiceType(t *testing.T) {
	tests := []struct {
		name         string
		startLine    ServiceLine
		startType    string
		newLine      ServiceLine
		expectedType string
	}{
		{
			name:         "snow per push to janitorial resets",
			startLine:    ServiceLine{ID: 2, Name: "Snow"},
			startType:    "Per Push",
			newLine:      ServiceLine{ID: 1, Name: "Janitorial"},
			expectedType: "Per Service",
		},
		{
			name:         "snow per event to landscape construction keeps",
			startLine:    ServiceLine{ID: 2, Name: "Snow"},
			startType:    "Per Event",
			newLine:      ServiceLine{ID: 7, Name: "Landscape Construction"},
			expectedType: "Per Event",
		},
		{
			name:         "janitorial to on demand resets",
			startLine:    ServiceLine{ID: 1, Name: "Janitorial"},
			startType:    "Per Service",
			newLine:      ServiceLine{ID: 46, Name: "On Demand"},
			expectedType: "1 Time Service",
		},
		{
			name:         "unknown line falls back to per event",
			startLine:    ServiceLine{ID: 2, Name: "Snow"},
			startType:    "Per Season",
			newLine:      ServiceLine{ID: 99, Name: "Mystery"},
			expectedType: "Per Event",
		},
		{
			name:         "same line keeps selection",
			startLine:    ServiceLine{ID: 2, Name: "Snow"},
			startType:    "Per Season",
			newLine:      ServiceLine{ID: 2, Name: "Snow"},
			expectedType: "Per Season",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			d.SetServiceLine(tt.startLine)
			d.ServiceType = tt.startType
			d.SetServiceLine(tt.newLine)
			if d.ServiceType != tt.expectedType {
				t.Errorf("service type after switch = %q, expected %q", d.ServiceType, tt.expectedType)
			}
		})
	}
}

func TestAvailableServices(t *testing.T) {
	d := NewDraft()
	if len(d.AvailableServices()) == 0 {
		t.Error("Snow should have pricing services available")
	}

	d.SetServiceLine(ServiceLine{ID: 46, Name: "On Demand"})
	if len(d.AvailableServices()) != 0 {
		t.Errorf("On Demand should have no services, got %v", d.AvailableServices())
	}
}

func TestSetContactCollapsesNoContact(t *testing.T) {
	d := NewDraft()
	d.SetContact(Contact{Name: "Jo", Email: "jo@acme.com", Phone: "555", NoContact: true})
	if d.Contact.Name != "" || d.Contact.Email != "" || d.Contact.Phone != "" {
		t.Errorf("noContact should clear text fields, got %+v", d.Contact)
	}
	if !d.Contact.NoContact {
		t.Error("noContact flag should survive the collapse")
	}

	d.SetBillingContact(Contact{Name: "Jo", Email: "jo@acme.com", Phone: "555"})
	if d.BillingContact.Name != "Jo" {
		t.Errorf("regular contact should keep its fields, got %+v", d.BillingContact)
	}
}

func TestReset(t *testing.T) {
	d := NewDraft()
	d.Client = "Acme"
	d.SetServiceLine(ServiceLine{ID: 1, Name: "Janitorial"})
	d.NewClient = true

	d.Reset()

	if d.Client != "" || d.NewClient || d.ServiceLine.Name != "Snow" || d.ServiceType != "Per Event" {
		t.Errorf("reset draft = %+v, expected mount defaults", d)
	}
}
