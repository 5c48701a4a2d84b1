package criteria

// DefaultPolicyName identifies the built-in catalog.
const DefaultPolicyName = "mcg-sepsis-febrile-illness"

// Built-in criterion names, in canonical order.
const (
	HemodynamicInstability            = "hemodynamic_instability"
	BacteremiaIfCulturesPerformed     = "bacteremia_if_cultures_performed"
	Hypoxemia                         = "hypoxemia"
	AlteredMentalStatus               = "altered_mental_status_severe_or_persistent"
	NewCoagulopathy                   = "new_coagulopathy"
	TachypneaPersists                 = "tachypnea_persists_despite_observation"
	DehydrationSevereOrPersistent     = "dehydration_severe_or_persistent"
	OralHydrationFailure              = "inability_to_maintain_oral_hydration_persists_after_observation"
	EndOrganDysfunction               = "end_organ_dysfunction_severe_or_persistent"
	CoreTempBelow35C                  = "core_temp_below_35c_due_to_infection"
	ParenteralAntimicrobialsInpatient = "parenteral_antimicrobials_inpatient_only"
	IsolationNotPossibleOutside       = "isolation_required_not_possible_outside_hospital"
)

// mcgSepsisDefinitions are the inpatient admission criteria for sepsis and
// other febrile illness without focal infection. Qualifiers such as "severe",
// "persistent" or "despite observation care" are resolved upstream.
var mcgSepsisDefinitions = []Definition{
	{Name: HemodynamicInstability, Label: "Hemodynamic instability"},
	{Name: BacteremiaIfCulturesPerformed, Label: "Bacteremia (if blood cultures performed)"},
	{Name: Hypoxemia, Label: "Hypoxemia"},
	{Name: AlteredMentalStatus, Label: "Severe or persistent altered mental status"},
	{Name: NewCoagulopathy, Label: "New coagulopathy (e.g., thrombocytopenia or prolonged PT)"},
	{Name: TachypneaPersists, Label: "Tachypnea that persists despite observation care"},
	{Name: DehydrationSevereOrPersistent, Label: "Severe or persistent dehydration"},
	{Name: OralHydrationFailure, Label: "Inability to maintain oral hydration requiring IV fluids that persists after observation care"},
	{Name: EndOrganDysfunction, Label: "Severe or persistent end-organ dysfunction"},
	{Name: CoreTempBelow35C, Label: "Core temperature < 35C thought due to infection"},
	{Name: ParenteralAntimicrobialsInpatient, Label: "Parenteral antimicrobial regimen requiring inpatient basis"},
	{Name: IsolationNotPossibleOutside, Label: "Isolation required not possible outside hospital"},
}

// DefaultCatalog returns the built-in MCG sepsis admission catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		DefaultPolicyName,
		"MCG Sepsis & Other Febrile Illness (without focal infection)",
		mcgSepsisDefinitions,
	)
	if err != nil {
		// Static definitions; only reachable if the table above is edited incorrectly.
		panic(err)
	}
	return c
}
