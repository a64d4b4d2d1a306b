package gam

import (
	"context"
	"fmt"
)

// KeyTypeFreeform is the only key type this toolkit creates. Freeform keys
// accept arbitrary values uploaded after the fact.
const KeyTypeFreeform = "FREEFORM"

// Key is a custom targeting key. Keys are created remotely, immutable once
// created, and unique by name within a network.
type Key struct {
	// ID is the opaque identifier assigned by the platform.
	ID int64 `json:"id,string"`
	// Name is the case-sensitive display name.
	Name string `json:"name"`
	// Type is the key kind; always FREEFORM for keys created here.
	Type string `json:"type"`
}

// Value is a custom targeting value belonging to exactly one key.
type Value struct {
	// ID is the identifier assigned by the platform on creation.
	ID int64 `json:"id,string,omitempty"`
	// Name is the display name.
	Name string `json:"name"`
	// KeyID references the owning key.
	KeyID int64 `json:"customTargetingKeyId,string"`
}

// ValuePage is one page of a value listing.
type ValuePage struct {
	// Values are the rows in this page.
	Values []Value `json:"results"`
	// TotalResultSetSize is the size of the full result set the statement
	// matches, not just this page.
	TotalResultSetSize int `json:"totalResultSetSize"`
}

// TargetingService is the custom targeting surface of the platform.
type TargetingService interface {
	// GetKeyByName returns the key with exactly the given name, or
	// ErrNotFound. Name uniqueness is guaranteed by the platform, so this
	// is a point lookup.
	GetKeyByName(ctx context.Context, name string) (*Key, error)

	// CreateKey creates a freeform key with the given name.
	CreateKey(ctx context.Context, name string) (*Key, error)

	// ListValues returns one page of values matching the statement.
	ListValues(ctx context.Context, stmt Statement) (*ValuePage, error)

	// CreateValues creates the given values in a single request.
	CreateValues(ctx context.Context, values []Value) ([]Value, error)

	// DeactivateValues soft-removes every value matching the statement and
	// returns how many were affected.
	DeactivateValues(ctx context.Context, stmt Statement) (int, error)
}

type restTargetingService struct {
	session *Session
}

type keyPage struct {
	Keys               []Key `json:"results"`
	TotalResultSetSize int   `json:"totalResultSetSize"`
}

func (t *restTargetingService) GetKeyByName(ctx context.Context, name string) (*Key, error) {
	stmt := Statement{
		Query:  "name = :name",
		Params: map[string]string{"name": name},
		Limit:  1,
	}

	var page keyPage
	path := t.session.networkPath("customTargetingKeys")
	if err := t.session.getJSON(ctx, "getCustomTargetingKeysByStatement", path, stmt.Values(), &page); err != nil {
		return nil, err
	}
	if len(page.Keys) == 0 {
		return nil, fmt.Errorf("custom targeting key %q: %w", name, ErrNotFound)
	}
	return &page.Keys[0], nil
}

func (t *restTargetingService) CreateKey(ctx context.Context, name string) (*Key, error) {
	request := Key{Name: name, Type: KeyTypeFreeform}

	var created Key
	path := t.session.networkPath("customTargetingKeys")
	if err := t.session.postJSON(ctx, "createCustomTargetingKeys", path, request, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (t *restTargetingService) ListValues(ctx context.Context, stmt Statement) (*ValuePage, error) {
	var page ValuePage
	path := t.session.networkPath("customTargetingValues")
	if err := t.session.getJSON(ctx, "getCustomTargetingValuesByStatement", path, stmt.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (t *restTargetingService) CreateValues(ctx context.Context, values []Value) ([]Value, error) {
	request := struct {
		Values []Value `json:"values"`
	}{Values: values}

	var response struct {
		Values []Value `json:"values"`
	}
	path := t.session.networkPath("customTargetingValues:batchCreate")
	if err := t.session.postJSON(ctx, "createCustomTargetingValues", path, request, &response); err != nil {
		return nil, err
	}
	return response.Values, nil
}

func (t *restTargetingService) DeactivateValues(ctx context.Context, stmt Statement) (int, error) {
	request := struct {
		Action string `json:"action"`
		Filter string `json:"filter"`
	}{
		Action: "DELETE",
		Filter: stmt.Filter(),
	}

	var response struct {
		NumChanges int `json:"numChanges"`
	}
	path := t.session.networkPath("customTargetingValues:performAction")
	if err := t.session.postJSON(ctx, "performCustomTargetingValueAction", path, request, &response); err != nil {
		return 0, err
	}
	return response.NumChanges, nil
}
