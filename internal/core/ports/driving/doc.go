// Package driving defines the interfaces through which the outside world
// drives the core (primary/inbound ports in hexagonal architecture).
//
// The CLI and TUI adapters depend on these interfaces; core services
// implement them.
//
//   - Ingestor: stores uploads as chunked, searchable documents
//   - Retriever: ranks stored chunks against a query
//   - Assistant: answers questions using retrieved context
//   - Librarian: loads and watches the reference library
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: services, adapters, or any driven port
package driving
