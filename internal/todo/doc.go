// Package todo holds the task list and the controller that edits it.
//
// The list is stored under the "tasks" key as a JSON array:
//
//	[
//	  {"id": "6f1c...", "text": "Eat Breakfast", "completed": false},
//	  {"id": "a93e...", "text": "Go to Work", "completed": true}
//	]
//
// Records without an "id" are accepted and get one when the list is
// hydrated. Stored lists are checked against an embedded JSON Schema
// (draft 2020-12) before they are decoded.
//
// # Editing
//
// At most one task is being edited at a time. The editing slot remembers the
// task by ID, so deleting or reordering other tasks never redirects an edit
// to the wrong row. Deleting the task being edited clears the slot.
//
// # Mutation
//
// Every operation builds a new slice and hands it to the persisted state;
// Task values already in a list are never modified.
package todo
