// Package io provides JSON import and export for recorded graph batches.
//
// # Overview
//
// A recorded batch is the raw node and edge payload a backend sent,
// captured before normalization. The on-disk format is a JSON object with
// "nodes" and "edges" arrays of arbitrary objects, plus an optional
// "mode" field:
//
//	{
//	  "mode": "incremental",
//	  "nodes": [{"id": "a", "label": "Alpha"}],
//	  "edges": [{"from": "a", "to": "b", "type": "USES"}]
//	}
//
// Batches written by [WriteBatch] round-trip through [ReadBatch], so a
// live session can be captured once and replayed deterministically.
package io
