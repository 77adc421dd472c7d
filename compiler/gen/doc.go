// Package gen derives the object model of a generated Python SDK from graph
// data models.
//
// The package turns views and their properties into data classes, fields,
// filter methods and API classes whose names are valid Python identifiers,
// do not collide with each other or with the names the SDK already uses, and
// are the same for the same input. An external renderer turns the result into
// source files; this package never writes Python text.
//
// # Architecture
//
// The pipeline follows this flow:
//
//	Data models (schema.DataModel)
//	        ↓
//	   minimalParents (implements graph, cycle check)
//	        ↓
//	   uniqueViewNames (base name per view)
//	        ↓
//	   createShells → attachFields (two passes over every view)
//	        ↓
//	   validateDataClasses (retry with more specific names on conflict)
//	        ↓
//	   filter methods, API classes, multi-API classes
//	        ↓
//	   Graph → Export → Manifest
//
// Every data class exists before any class gets its fields, so views may
// reference each other in any order.
//
// # Key Types
//
//   - Graph: the resolved model of one run
//   - DataClass: the class family of one view
//   - Field: a sealed sum type over the field variants
//   - FilterMethod: the parameters and implementations of a filter
//   - APIClass, MultiAPIClass: API wrappers per view and per data model
//   - Config: naming rules, filter operators and output settings
//
// # Error Handling
//
// Fatal problems are typed errors matching a sentinel through errors.Is:
//
//   - PropertyError: a property no field variant can represent
//   - SchemaError: an inconsistent schema
//   - NameConflictError: generated names that stay shared
//   - UniqueNameError: views no naming strategy tells apart
//   - CycleError: a cycle in interface inheritance
//   - ReservedNameError: a view named after the core module
//   - ConfigError: an invalid option
//
// Recoverable problems become Warnings on the graph and are logged with the
// configured slog.Logger once the run settles.
//
//	g, err := gen.NewGraph(cfg, models...)
//	if err != nil {
//	    if gen.IsNameConflictError(err) {
//	        // Rename the views or change the naming rules.
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration uses functional options:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./out"),
//	    gen.WithFormat(gen.FormatYAML),
//	    gen.WithDefaultInstanceSpace("my_instances"),
//	)
//
// # Output
//
// ManifestWriter writes the graph for the renderer:
//
//	{target}/
//	├── manifest.{format}          // every class, field and filter
//	└── {client_attribute}.{format} // one file per data model
package gen
