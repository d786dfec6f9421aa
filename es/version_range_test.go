package es

import "testing"

func TestAllVersions(t *testing.T) {
	r := AllVersions()
	if r.GT != nil || r.LTE != nil || r.Desc || r.Limit != nil {
		t.Errorf("expected zero-value range, got %+v", r)
	}
}

func TestVersionsAfter(t *testing.T) {
	r := VersionsAfter(3)
	if r.GT == nil || *r.GT != 3 {
		t.Errorf("expected GT=3, got %+v", r)
	}
	if r.LTE != nil {
		t.Errorf("expected LTE to be nil, got %+v", r.LTE)
	}
}

func TestVersionsUpTo(t *testing.T) {
	r := VersionsUpTo(5)
	if r.LTE == nil || *r.LTE != 5 {
		t.Errorf("expected LTE=5, got %+v", r)
	}
}

func TestReversed(t *testing.T) {
	r := AllVersions().Reversed()
	if !r.Desc {
		t.Error("expected Desc to be true")
	}
}

func TestLimited(t *testing.T) {
	r := AllVersions().Limited(10)
	if r.Limit == nil || *r.Limit != 10 {
		t.Errorf("expected Limit=10, got %+v", r.Limit)
	}
}

func TestChaining(t *testing.T) {
	r := VersionsAfter(1).Limited(2).Reversed()
	if r.GT == nil || *r.GT != 1 {
		t.Errorf("expected GT=1, got %+v", r.GT)
	}
	if r.Limit == nil || *r.Limit != 2 {
		t.Errorf("expected Limit=2, got %+v", r.Limit)
	}
	if !r.Desc {
		t.Error("expected Desc to be true")
	}
}
