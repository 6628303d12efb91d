package config

// Version is the client version reported by the CLI and the MCP server.
const Version = "0.1.0"
