package main

// Version is the fvupgrader CLI version. Overridden at build time with -ldflags "-X main.Version=...".
var Version = "1.0.0"
