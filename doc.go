// Package ftk provides a native Go client for the Exterro FTK Enterprise
// REST API.
//
// # Features
//
//   - Service-based architecture covering cases, evidence, objects, labels,
//     jobs, agents and enterprise collections
//   - Modern Go 1.25+ iterators for object pagination
//   - A typed filter builder mirroring the service's column filter model
//   - Typed errors for precise error handling
//   - Functional options for flexible configuration
//
// # Quick Start
//
//	client, err := ftk.NewClient(
//	    ftk.WithBaseURL("https://ftk.example.com:4443"),
//	    ftk.WithAPIKey(apiKey),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.StatusCheck(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Browse all objects in a case
//	for obj, err := range client.Objects.Iterate(ctx, caseID, nil) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(obj.ID())
//	}
//
// # Filters
//
// Filters narrow object sets server-side. Build them from attribute
// definitions for type checking, or directly when the column is known:
//
//	attrs, _ := client.Attributes.ByName(ctx, "ObjectType")
//	f, err := attrs.EqualTo(int64(5))
//
//	f := ftk.And(
//	    ftk.NewStringFilter("FileName", ftk.StringContains, "invoice"),
//	    ftk.NewNumberFilter("FileSize", ftk.NumberGreaterThan, 1024),
//	)
//
// # Error Handling
//
// The package uses typed errors that can be inspected with errors.As:
//
//	_, err := client.Cases.Create(ctx, req)
//	if err != nil {
//	    var denied *ftk.AuthenticationError
//	    if errors.As(err, &denied) {
//	        // Handle permission failure
//	    }
//	}
//
// # Pagination
//
// Use iterators for automatic pagination:
//
//	// Iterate over all results
//	for obj, err := range client.Objects.Iterate(ctx, caseID, opts) {
//	    // ...
//	}
//
//	// Collect all results into a slice
//	objects, err := ftk.Collect(client.Objects.Iterate(ctx, caseID, opts))
//
//	// Or use manual pagination
//	page, err := client.Objects.BrowsePage(ctx, caseID, 1, 100, nil)
package ftk
