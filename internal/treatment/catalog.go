// Package treatment ranks catalog treatments against a patient profile and
// projects a treatment course over time.
package treatment

import (
	"sync"

	"github.com/cognisphere-server/internal/domain"
)

// Catalog is an immutable, ordered set of treatments. Accessors return copies
// so callers can never mutate the shared table.
type Catalog struct {
	treatments []domain.Treatment
	byID       map[string]int
}

// NewCatalog builds a catalog preserving the given order. Later duplicates of
// an id are ignored.
func NewCatalog(treatments []domain.Treatment) *Catalog {
	c := &Catalog{
		treatments: make([]domain.Treatment, 0, len(treatments)),
		byID:       make(map[string]int, len(treatments)),
	}
	for _, t := range treatments {
		if _, dup := c.byID[t.ID]; dup {
			continue
		}
		c.byID[t.ID] = len(c.treatments)
		c.treatments = append(c.treatments, cloneTreatment(t))
	}
	return c
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the process-wide reference catalog.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = NewCatalog(referenceTreatments())
	})
	return defaultCatalog
}

// All returns every treatment in catalog order.
func (c *Catalog) All() []domain.Treatment {
	out := make([]domain.Treatment, len(c.treatments))
	for i, t := range c.treatments {
		out[i] = cloneTreatment(t)
	}
	return out
}

// ForDisease returns the treatments for d in catalog order.
func (c *Catalog) ForDisease(d domain.TreatmentDisease) []domain.Treatment {
	out := make([]domain.Treatment, 0, 4)
	for _, t := range c.treatments {
		if t.Disease == d {
			out = append(out, cloneTreatment(t))
		}
	}
	return out
}

// Get looks up a treatment by id.
func (c *Catalog) Get(id string) (domain.Treatment, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Treatment{}, false
	}
	return cloneTreatment(c.treatments[i]), true
}

// Len returns the number of treatments.
func (c *Catalog) Len() int {
	return len(c.treatments)
}

func cloneTreatment(t domain.Treatment) domain.Treatment {
	t.SideEffects = append([]domain.SideEffect{}, t.SideEffects...)
	return t
}

func se(name string, probability float64, severity domain.SideEffectSeverity) domain.SideEffect {
	return domain.SideEffect{Name: name, Probability: probability, Severity: severity}
}

func referenceTreatments() []domain.Treatment {
	return []domain.Treatment{
		{
			ID: "alz-1", Name: "Donepezil", Category: "Cholinesterase Inhibitor",
			Disease: domain.TreatmentAlzheimers, BaseEfficacy: 58,
			SideEffects: []domain.SideEffect{
				se("Nausea", 18, domain.SideEffectMild),
				se("Dizziness", 12, domain.SideEffectMild),
			},
			TimeToEffect: 4, Cost: domain.CostLow,
		},
		{
			ID: "alz-2", Name: "Memantine", Category: "NMDA Receptor Antagonist",
			Disease: domain.TreatmentAlzheimers, BaseEfficacy: 52,
			SideEffects: []domain.SideEffect{
				se("Dizziness", 14, domain.SideEffectMild),
				se("Headache", 12, domain.SideEffectMild),
			},
			TimeToEffect: 6, Cost: domain.CostMedium,
		},
		{
			ID: "alz-3", Name: "Rivastigmine", Category: "Cholinesterase Inhibitor",
			Disease: domain.TreatmentAlzheimers, BaseEfficacy: 54,
			SideEffects: []domain.SideEffect{
				se("Nausea", 22, domain.SideEffectModerate),
				se("Vomiting", 18, domain.SideEffectModerate),
			},
			TimeToEffect: 5, Cost: domain.CostMedium,
		},
		{
			ID: "alz-4", Name: "CBT Therapy", Category: "Non-Pharmacological",
			Disease: domain.TreatmentAlzheimers, BaseEfficacy: 62,
			SideEffects:  []domain.SideEffect{},
			TimeToEffect: 6, Cost: domain.CostMedium,
		},
		{
			ID: "pd-1", Name: "Levodopa", Category: "Dopamine Precursor",
			Disease: domain.TreatmentParkinsons, BaseEfficacy: 75,
			SideEffects: []domain.SideEffect{
				se("Dyskinesia", 25, domain.SideEffectModerate),
				se("Nausea", 20, domain.SideEffectMild),
			},
			TimeToEffect: 2, Cost: domain.CostLow,
		},
		{
			ID: "pd-2", Name: "Pramipexole", Category: "Dopamine Agonist",
			Disease: domain.TreatmentParkinsons, BaseEfficacy: 62,
			SideEffects: []domain.SideEffect{
				se("Somnolence", 22, domain.SideEffectModerate),
				se("Nausea", 18, domain.SideEffectMild),
			},
			TimeToEffect: 3, Cost: domain.CostMedium,
		},
		{
			ID: "pd-3", Name: "Rasagiline", Category: "MAO-B Inhibitor",
			Disease: domain.TreatmentParkinsons, BaseEfficacy: 58,
			SideEffects: []domain.SideEffect{
				se("Headache", 14, domain.SideEffectMild),
				se("Arthralgia", 12, domain.SideEffectMild),
			},
			TimeToEffect: 4, Cost: domain.CostHigh,
		},
		{
			ID: "pd-4", Name: "DBS (Deep Brain Stimulation)", Category: "Surgical Intervention",
			Disease: domain.TreatmentParkinsons, BaseEfficacy: 70,
			SideEffects: []domain.SideEffect{
				se("Infection Risk", 5, domain.SideEffectSevere),
				se("Speech Difficulty", 10, domain.SideEffectModerate),
			},
			TimeToEffect: 8, Cost: domain.CostVeryHigh,
		},
		{
			ID: "epi-1", Name: "Levetiracetam", Category: "Anticonvulsant",
			Disease: domain.TreatmentEpilepsy, BaseEfficacy: 58,
			SideEffects: []domain.SideEffect{
				se("Somnolence", 15, domain.SideEffectMild),
				se("Asthenia", 12, domain.SideEffectMild),
			},
			TimeToEffect: 2, Cost: domain.CostMedium,
		},
		{
			ID: "epi-2", Name: "Valproate", Category: "Anticonvulsant",
			Disease: domain.TreatmentEpilepsy, BaseEfficacy: 62,
			SideEffects: []domain.SideEffect{
				se("Weight Gain", 25, domain.SideEffectModerate),
				se("Tremor", 18, domain.SideEffectMild),
			},
			TimeToEffect: 3, Cost: domain.CostLow,
		},
		{
			ID: "epi-3", Name: "Lamotrigine", Category: "Anticonvulsant",
			Disease: domain.TreatmentEpilepsy, BaseEfficacy: 55,
			SideEffects: []domain.SideEffect{
				se("Rash", 10, domain.SideEffectModerate),
				se("Dizziness", 14, domain.SideEffectMild),
			},
			TimeToEffect: 4, Cost: domain.CostMedium,
		},
		{
			ID: "epi-4", Name: "VNS (Vagus Nerve Stimulation)", Category: "Neuromodulation",
			Disease: domain.TreatmentEpilepsy, BaseEfficacy: 50,
			SideEffects: []domain.SideEffect{
				se("Voice Alteration", 20, domain.SideEffectMild),
				se("Cough", 15, domain.SideEffectMild),
			},
			TimeToEffect: 12, Cost: domain.CostVeryHigh,
		},
	}
}
