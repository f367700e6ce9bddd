package types

// Version is the ytclip version, overridden at build time via -ldflags
var Version = "dev"
