/*
Package ports defines the driven ports (interfaces) of the Food Advisor engine.

These interfaces decouple the navigation core from external implementations, allowing
the engine to run against different dataset sources and session backends.

# Key Interfaces

  - DatasetLoader: loads a brand's navigation graph and product catalog (file, memory, embedded).
  - StateStore: persists and loads session State (memory, file, Redis).
  - DistributedLocker: serialises session access across replicas.
  - Watchable: loaders that can signal dataset changes for hot reload.
*/
package ports
