// Package task defines the task record and its field rules.
//
// A task is serialized as:
//
//	{
//	  "id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
//	  "title": "Write release notes",
//	  "description": "Cover the storage changes",
//	  "priority": "high",
//	  "status": "in-progress",
//	  "createdAt": "2024-01-01T09:30:00.123456789Z",
//	  "updatedAt": "2024-01-02T10:00:00Z"
//	}
//
// # Priority Values
//
//   - "high": rank 3
//   - "medium": rank 2 (default)
//   - "low": rank 1
//
// # Status Values
//
//   - "to-do": not started (default)
//   - "in-progress": being worked on
//   - "done": complete
//
// # Validation
//
// Validate checks a candidate (possibly partial) record and returns every
// violated rule, in a fixed order. It never mutates its input, so it can be
// run against an in-progress edit before anything is stored.
package task
