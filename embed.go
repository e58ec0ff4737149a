package inkwell

import "embed"

// EmbeddedAssets contains the browser assets shipped with the server:
// app.js (debounced search, theme toggle, comment theme sync) and style.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
