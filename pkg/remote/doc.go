// Package remote is the registry of remotely loadable UI components.
//
// The plugin ships a federated JS bundle next to the Go binary. Its
// remote-manifest.json names the federation container, the entry file and the
// exports it exposes. A tool descriptor refers to its view by export name
// ("./translatorTool") and the host resolves that name here before loading
// the bundle. A rendered component receives Props{Input, Output} and shows a
// pending state until Output is set.
//
// ManifestResolver can watch the manifest so a rebuilt bundle is picked up
// without restarting the plugin.
package remote
