package model

import "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"

// GroundingPassage is a retrieved excerpt cited as the basis of an answer
type GroundingPassage struct {
	SourceFileName string
	ChunkIndex     *int
	ExcerptText    string
	RelevanceScore *float64
}

// Answer is the output of a query
type Answer struct {
	Text     string
	Passages []GroundingPassage
}

// ConversationTurn is owned by the caller; Turn fills it from an answer
type ConversationTurn struct {
	Role     types.Role
	Text     string
	Passages []GroundingPassage
}

func (a *Answer) Turn() ConversationTurn {
	return ConversationTurn{
		Role:     types.RoleModel,
		Text:     a.Text,
		Passages: a.Passages,
	}
}

// Sources returns the distinct source file names cited by the answer, in order of first appearance
func (a *Answer) Sources() []string {
	seen := make(map[string]struct{})
	var sources []string
	for _, p := range a.Passages {
		if p.SourceFileName == "" {
			continue
		}
		if _, ok := seen[p.SourceFileName]; ok {
			continue
		}
		seen[p.SourceFileName] = struct{}{}
		sources = append(sources, p.SourceFileName)
	}
	return sources
}
