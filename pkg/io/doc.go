// Package io provides JSON import and export for engagement datasets.
//
// # Overview
//
// A dataset file holds one of three chart datasets. The kind is taken from an
// optional top-level "kind" field or detected from the shape of the document:
//
//   - timeline: has an "event" object and "students" with "sessions"
//   - performance: has "students" with "performances"
//   - interactions: has "startDate"/"endDate" and students with "dailyData"
//
// # Timeline Format
//
//	{
//	  "event": {"title": "Aula 03", "start": "2024-01-01T13:00", "end": "2024-01-01T15:00"},
//	  "students": [
//	    {"name": "Alice", "avatar": "img/f37.jpg",
//	     "sessions": [{"start": "2024-01-01T12:45", "end": "2024-01-01T14:45"}]}
//	  ]
//	}
//
// # Timestamps
//
// Timestamps accept RFC 3339 ("2024-01-01T13:00:00Z"), a local form without
// zone ("2024-01-01T13:00" or with seconds) and plain dates ("2024-01-01").
// Values without a zone are read as UTC.
//
// # Import
//
// Use [ImportDataset] to read a file, or [ReadDataset] to read from any
// io.Reader. The kind-specific readers ([ReadTimeline], [ReadPerformance],
// [ReadInteractions]) skip detection. All readers validate the data and
// return errors coded [errors.ErrCodeInvalidDataset].
//
// # Export
//
// [WriteDataset] and [ExportDataset] write a dataset back in the same format,
// always including the "kind" field. Import followed by export is stable.
//
// [errors.ErrCodeInvalidDataset]: github.com/matzehuels/classviz/pkg/errors.ErrCodeInvalidDataset
package io
