package intel

import (
	"testing"

	"revintel/internal/retrieval"
	"revintel/internal/types"
)

func TestStreamCache(t *testing.T) {
	t.Parallel()

	c := NewStreamCache()

	if _, ok := c.Get(streamTools, types.ICPAgency, types.UseCaseLeadQualification); ok {
		t.Error("empty cache should miss")
	}
	if c.Size() != 0 {
		t.Errorf("empty cache size = %d", c.Size())
	}

	result := &retrieval.Result{Tools: []types.Tool{{Name: "Clay"}}}
	c.Set(streamTools, types.ICPAgency, types.UseCaseLeadQualification, result)

	got, ok := c.Get(streamTools, types.ICPAgency, types.UseCaseLeadQualification)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got.(*retrieval.Result).Tools[0].Name != "Clay" {
		t.Errorf("cached value mismatch: %+v", got)
	}

	// Same stream, different ICP is a distinct key.
	if _, ok := c.Get(streamTools, types.ICPSaaS, types.UseCaseLeadQualification); ok {
		t.Error("different ICP should miss")
	}

	c.Set(streamPatterns, types.ICPAgency, types.UseCaseLeadQualification, &retrieval.Result{})
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("size after Clear = %d, want 0", c.Size())
	}
	if _, ok := c.Get(streamTools, types.ICPAgency, types.UseCaseLeadQualification); ok {
		t.Error("cleared cache should miss")
	}
}
