package version

// Overridden at build time with -ldflags "-X .../version.APP_VERSION=..."
var APP_VERSION = "0.1.0-dev"
