// Package drawioexport exports every page of a draw.io document to its own
// image file by running the draw.io desktop CLI once per page.
//
// # Quick Start
//
//	cfg, err := drawioexport.NewExportConfig(drawioexport.Options{
//	    InputPath:       "Diagrams.drawio",
//	    OutputDirectory: "images",
//	    Scale:           2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	batch, err := drawioexport.NewExporter().Run(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d exported, %d failed\n", batch.Succeeded(), batch.Failed())
//
// # Export Pipeline
//
//  1. Read the document and list its <diagram> pages in order
//  2. Plan one output path per page: "{dir}{base} - {page}.png"
//  3. Create the output directory
//  4. Render each page in turn: drawio -x -p N -o OUT -f FMT -s SCALE [-t] FILE
//
// Steps 1 to 3 are fatal on error. In step 4 a page whose renderer exits
// non-zero is recorded as failed and the batch moves on; only a renderer that
// cannot be started at all stops the run.
//
// # Output Names
//
// The page name is used verbatim. Two pages with the same name produce the
// same path; CollisionPolicy chooses between overwriting (default), adding a
// " (n)" suffix, or refusing the export. The extension is ".png" regardless
// of format unless ExtensionFromFormat is selected.
package drawioexport
