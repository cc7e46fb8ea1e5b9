// Package journal records finished hover sessions to an append-only JSONL
// file so open/close behaviour can be inspected after the fact.
package journal
