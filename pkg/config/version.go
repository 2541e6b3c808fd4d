package config

// SchemaVersion is the version of the mcp-launch config file formats.
// Both launch descriptor files and host config files carry this version
// in their schemaVersion field.
const SchemaVersion = "0.1.0"
