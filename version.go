package toolwire

// Version is the toolwire release version.
const Version = "0.1.0"
