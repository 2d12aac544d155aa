// Package panel holds the state and orchestration behind the users admin
// panel: the list query with its current page of rows, and the create and
// edit dialog with its validation and error mapping.
//
// Controllers never talk to a terminal or a dialog library directly.
// Notifications, confirmations and the scheduling of refreshes are
// injected as small interfaces so the same logic drives the console
// client and the tests.
package panel
