package service

import (
	"fmt"
	"strings"

	"github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/diff"
)

// Action is the kind of audited operation.
type Action string

const (
	ActionCreatedListing Action = "Created Listing"
	ActionUpdatedListing Action = "Updated Listing"
	ActionDeletedListing Action = "Deleted Listing"
)

// Details is the typed payload of an audit record. Each variant knows its
// action kind and how to render itself to the prose stored in the log row;
// rendering happens only at the persistence boundary so the underlying data
// stays testable independent of formatting.
type Details interface {
	Action() Action
	Render() string
}

// CreateSummary captures every submitted field of a freshly created listing.
type CreateSummary struct {
	MLSID             string
	Address           string
	Compensation      string
	BrokerName        string
	BrokerEmail       string
	BrokerPhone       string
	ListingAgent      string
	ListingAgentPhone string
	ListingAgentEmail string
	PDFPath           string
}

func (CreateSummary) Action() Action { return ActionCreatedListing }

// Render emits the fixed-order field summary. The optional agent fields are
// rendered as the literal "N/A" when empty, never left blank.
func (d CreateSummary) Render() string {
	lines := []string{
		"MLS: " + d.MLSID,
		"Address: " + d.Address,
		"Compensation: " + d.Compensation,
		"Broker Name: " + d.BrokerName,
		"Broker Email: " + d.BrokerEmail,
		"Broker Phone: " + d.BrokerPhone,
		"Listing Agent: " + orNA(d.ListingAgent),
		"Listing Agent Phone: " + orNA(d.ListingAgentPhone),
		"Listing Agent Email: " + orNA(d.ListingAgentEmail),
		"PDF Path: " + d.PDFPath,
	}
	return strings.Join(lines, "\n")
}

// UpdateDiff captures the field-level delta of a listing edit along with both
// full snapshots for forensic completeness.
type UpdateDiff struct {
	ListingID string
	Changes   []diff.Change
	Before    diff.Snapshot
	After     diff.Snapshot
}

func (UpdateDiff) Action() Action { return ActionUpdatedListing }

func (d UpdateDiff) Render() string {
	var b strings.Builder

	b.WriteString("Listing ID: " + d.ListingID + "\n\n")
	b.WriteString("Changes:\n")
	b.WriteString(diff.Render(d.Changes))
	b.WriteString("\n\nFull Before:\n")
	b.WriteString(renderSnapshot(d.Before))
	b.WriteString("\n\nFull After:\n")
	b.WriteString(renderSnapshot(d.After))

	return b.String()
}

// DeleteRef identifies a removed listing by its business key. Deliberately
// minimal, asymmetric with create/update.
type DeleteRef struct {
	MLSID string
}

func (DeleteRef) Action() Action { return ActionDeletedListing }

func (d DeleteRef) Render() string {
	return "MLS: " + d.MLSID
}

// renderSnapshot writes the snapshot as a JSON object literal preserving
// field order, which encoding/json's map marshalling would not.
func renderSnapshot(s diff.Snapshot) string {
	var b strings.Builder

	b.WriteString("{\n")
	for i, f := range s {
		fmt.Fprintf(&b, "  %q: %q", f.Name, f.Value)
		if i < len(s)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")

	return b.String()
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
