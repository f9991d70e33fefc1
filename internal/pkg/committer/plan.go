package committer

import "cloud.google.com/go/spanner"

// Plan collects the mutations of one atomic write.
type Plan struct {
	mutations []*spanner.Mutation
}

// NewPlan returns a plan seeded with the given mutations; nil entries are skipped.
func NewPlan(muts ...*spanner.Mutation) *Plan {
	p := &Plan{mutations: make([]*spanner.Mutation, 0, len(muts))}
	for _, m := range muts {
		p.Add(m)
	}
	return p
}

func (p *Plan) Add(m *spanner.Mutation) {
	if m == nil {
		return
	}
	p.mutations = append(p.mutations, m)
}

func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.mutations) == 0
}

func (p *Plan) Mutations() []*spanner.Mutation {
	return p.mutations
}
