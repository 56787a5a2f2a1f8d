package service

import (
	"github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/diff"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/persistence"
)

// snapshotOf flattens the editable listing fields into a diffable snapshot.
// Field order follows the listing schema and is what the rendered audit
// details preserve.
func snapshotOf(record persistence.Listing) diff.Snapshot {
	return diff.Snapshot{
		{Name: "mls_id", Value: record.MLSID},
		{Name: "compensation", Value: record.Compensation},
		{Name: "address", Value: record.Address},
		{Name: "broker_name", Value: record.BrokerName},
		{Name: "broker_email", Value: record.BrokerEmail},
		{Name: "broker_phone", Value: record.BrokerPhone},
		{Name: "listing_agent", Value: record.ListingAgent},
		{Name: "listing_agent_phone", Value: record.ListingAgentPhone},
		{Name: "listing_agent_email", Value: record.ListingAgentEmail},
	}
}
