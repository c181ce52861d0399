// Package clip holds the data model shared by the clip search engine.
//
// This package enables clipfinder to:
// - Describe what the user is looking for (Filter)
// - Describe one independent remote query (Query)
// - Carry clips between the remote client, the aggregator and the CLI (Record)
package clip

import "time"

// MaxPageSize is the largest page the remote platform returns for one query.
const MaxPageSize = 100

// Record is a clip as returned by the remote platform. ID is its identity.
type Record struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	BroadcasterName      string    `json:"broadcaster_name"`
	ViewCount            int64     `json:"view_count"`
	Language             string    `json:"language"`
	CreatedAt            time.Time `json:"created_at"`
	URL                  string    `json:"url"`
	ThumbnailTemplateURL string    `json:"thumbnail_url"`
}

// Query describes one independent remote clip query.
// At least one of CategoryID and ChannelID is set.
type Query struct {
	Start      time.Time
	End        time.Time
	PageSize   int
	CategoryID string
	ChannelID  string
}

// Target returns the (category, channel) pair the query addresses.
func (q Query) Target() [2]string {
	return [2]string{q.CategoryID, q.ChannelID}
}

// String renders the query for logs.
func (q Query) String() string {
	s := "clips"
	if q.CategoryID != "" {
		s += " category=" + q.CategoryID
	}
	if q.ChannelID != "" {
		s += " channel=" + q.ChannelID
	}
	return s
}
