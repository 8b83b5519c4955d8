package intake

import (
	"fmt"
	"math"
)

// Item is one required-field check. Section groups items the way the form
// lays them out; Detail carries an optional human-readable note.
type Item struct {
	Label     string `json:"label"`
	Section   string `json:"section"`
	Satisfied bool   `json:"satisfied"`
	Detail    string `json:"detail,omitempty"`
}

// Report is the outcome of validating a draft. Items holds every currently
// applicable check; guarded checks (contract duration, third-party provider)
// are omitted entirely when their guard is false.
type Report struct {
	Items        []Item `json:"items"`
	AllSatisfied bool   `json:"allSatisfied"`
}

// check pairs a guard with the item it contributes. Evaluating the list
// declaratively keeps the applicable set and the satisfied set both explicit,
// and every applicable check runs every time so the form can show partial
// progress.
type check struct {
	guard func() bool
	item  func() Item
}

// Validate runs every applicable required-field check against the draft.
// siteCount is the number of rows from the last successful spreadsheet
// import; contractAttached reports whether at least one contract file is
// attached.
func Validate(d *Draft, siteCount int, contractAttached bool) Report {
	always := func() bool { return true }

	checks := []check{
		{always, func() Item {
			return Item{Label: "Signed Contract uploaded", Section: "Documents", Satisfied: contractAttached}
		}},
		{always, func() Item {
			it := Item{Label: "Sites Excel uploaded", Section: "Documents", Satisfied: siteCount > 0}
			if siteCount > 0 {
				it.Detail = fmt.Sprintf("%d sites", siteCount)
			}
			return it
		}},
		{always, func() Item {
			return Item{Label: "Client Name", Section: "Client Information", Satisfied: d.Client != ""}
		}},
		{always, func() Item {
			return Item{Label: "Address", Section: "Client Information", Satisfied: d.Address != ""}
		}},
		{always, func() Item {
			return Item{Label: "Service Line", Section: "Client Information", Satisfied: d.ServiceLine.Name != ""}
		}},
		{always, func() Item {
			return Item{Label: "Software Portal", Section: "Client Information", Satisfied: d.Software != ""}
		}},
		{always, func() Item {
			return Item{Label: "Primary Contact", Section: "Contact Information", Satisfied: contactComplete(d.Contact)}
		}},
		{always, func() Item {
			return Item{Label: "Billing Contact", Section: "Contact Information", Satisfied: contactComplete(d.BillingContact)}
		}},
		{always, func() Item {
			return Item{Label: "Renewal Type", Section: "Contract Details", Satisfied: d.Renewal != ""}
		}},
		{func() bool { return d.Renewal == RenewalFixed }, func() Item {
			return Item{Label: "Contract Duration", Section: "Contract Details", Satisfied: d.Duration != ""}
		}},
		{always, func() Item {
			return Item{Label: "Contract Start Date", Section: "Contract Details", Satisfied: d.StartDate != ""}
		}},
		{always, func() Item {
			return Item{Label: "Payment Terms", Section: "Payment & Invoicing", Satisfied: d.PaymentTerms != ""}
		}},
		{always, func() Item {
			return Item{Label: "Payment Method", Section: "Payment & Invoicing", Satisfied: d.PaymentMethod != ""}
		}},
		{func() bool { return d.PaymentMethod == PaymentThirdParty }, func() Item {
			return Item{Label: "3rd Party Payment Provider", Section: "Payment & Invoicing", Satisfied: d.ThirdPartyPaymentProvider != ""}
		}},
		{always, func() Item {
			return Item{Label: "Invoicing Directions", Section: "Payment & Invoicing", Satisfied: d.InvoicingDirections != ""}
		}},
	}

	report := Report{AllSatisfied: true}
	for _, c := range checks {
		if !c.guard() {
			continue
		}
		it := c.item()
		report.Items = append(report.Items, it)
		if !it.Satisfied {
			report.AllSatisfied = false
		}
	}
	return report
}

// Missing returns the unsatisfied items.
func (r Report) Missing() []Item {
	var out []Item
	for _, it := range r.Items {
		if !it.Satisfied {
			out = append(out, it)
		}
	}
	return out
}

// Completed returns the satisfied items.
func (r Report) Completed() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Satisfied {
			out = append(out, it)
		}
	}
	return out
}

// Percent is the completion percentage, rounded, over the applicable checks.
func (r Report) Percent() int {
	if len(r.Items) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(r.Completed())) / float64(len(r.Items))))
}

// contactComplete applies the noContact collapse: a contact is complete when
// noContact is set, or when all three text fields are filled in.
func contactComplete(c Contact) bool {
	return c.NoContact || (c.Name != "" && c.Email != "" && c.Phone != "")
}
