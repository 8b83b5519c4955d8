package intake

// ServiceLine is one of the fixed top-level categories of work. The numeric
// ids come from the upstream operations system and must not be renumbered.
type ServiceLine struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Assigned string        `json:"assignedTo"`
	DueDate  string        `json:"dueDate"`
	Priority string        `json:"priority"`
	Pricing  []PricingItem `json:"pricing"`
}

// ServiceLines is the closed set of selectable service lines.
var ServiceLines = []ServiceLine{
	{ID: 1, Name: "Janitorial"},
	{ID: 4, Name: "Landscaping"},
	{ID: 7, Name: "Landscape Construction"},
	{ID: 3, Name: "Lot Sweeping"},
	{ID: 2, Name: "Snow"},
	{ID: 46, Name: "On Demand"},
}

// Softwares lists the client-facing work-order portals we integrate with.
// "New Portal" unlocks a free-text supplement on the form.
var Softwares = []string{
	"No Portal",
	"New Portal",
	"Corrigo",
	"Coupa",
	"EcoTrak",
	"KBP (VX Suite)",
	"Limble",
	"MaintainX",
	"Nest",
	"Potfolio",
	"Procursys",
	"Ramp Public Storage",
	"Service One (GPM)",
	"ServiceChannel",
	"SiteFotos",
	"Verisae",
	"Wrench",
}

// ServiceLineServices maps a service line name to the priced services a
// pricing column may be assigned to. Lines absent from the map (and lines
// mapped to an empty slice) offer no pricing services.
var ServiceLineServices = map[string][]string{
	"On Demand":        {},
	"General Services": {},
	"Snow": {
		"Lot Snow Removal Rate",
		"Lot Deicing",
		"Walkway Snow Removal Rate",
		"Walkway Deicing",
		"Municipal Snow Removal Rate",
		"Municipal Deicing",
		"Front Loader",
		"Hauling",
		"Bobcat",
		"Dump Truck",
		"Dump Trailer",
		"Skidsteer",
		"Roof/Gas Canopy Shoveling",
		"Snow Raking Roofline",
		"Snow Shoveling",
		"Snow Stacking",
		"Deicing Entire Grounds",
		"Material",
	},
	"Lot Sweeping": {
		"Lot Sweeping Rate",
		"Portering Rate",
		"Lot Pressure Washing Rate",
		"Walkway Pressure Washing Rate",
	},
	"Landscaping": {
		"Routine Maintenance Rate",
		"Mulch Rate",
		"Fertilizer Rate",
		"Pruning Rate",
		"Irrigation On/Off (Includes Fall Blowout) Rate",
		"Spring Cleanup Rate",
		"Fall Cleanup Rate",
		"Aeration/Overseed (Fall) Rate",
		"Storm/Emergency Cleanup Rate",
		"Turf Management Rate",
		"Pre Emergent",
		"Wet Test",
		"Irrigation On Rate",
		"Irrigation Off Rate",
	},
	"Landscape Construction": {},
}

// Units are the billing units a pricing column can be expressed in.
var Units = []string{
	"Hour",
	"Load",
	"Man Hour",
	"Square Footage",
	"Bag",
	"Gallon",
	"Ton",
	"Application",
	"Service",
	"Event",
	"Month",
	"Season",
}

// ServiceTypesFor returns the billing cadences available for a service line.
// Unrecognized lines fall back to Per Event.
func ServiceTypesFor(serviceLineName string) []string {
	switch serviceLineName {
	case "Snow":
		return []string{"Per Event", "Per Season", "Per Push"}
	case "Janitorial", "Landscaping", "Lot Sweeping":
		return []string{"Per Service"}
	case "On Demand":
		return []string{"1 Time Service"}
	default:
		return []string{"Per Event"}
	}
}

// ServicesFor returns the priced services for a service line, empty when the
// line has none defined.
func ServicesFor(serviceLineName string) []string {
	return ServiceLineServices[serviceLineName]
}
