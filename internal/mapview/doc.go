// Package mapview keeps one rendering engine instance in step with the
// dashboard's project list, theme and camera mode.
//
// A Controller is bound to a single mount. Create builds the engine once,
// Synchronize pushes new inputs, Dispose releases it. Status colors, the
// feature collection and popup formatting live alongside so the browser and
// the server agree on how a project looks.
package mapview
