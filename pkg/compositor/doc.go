// Package compositor turns a template book and a list of recipes into
// numbered page images.
//
// Pages are processed in book order. Each page is planned into image
// instances: the recipe items of the page take, in paint order, the first
// pending recipe they accept (see package matcher). The first instance of
// a page always renders, later ones only while recipes are taken. Recipes
// are consumed for the rest of the book.
//
// Drawing is delegated to a Painter; texture lookups to a Textures
// implementation such as *texture.Resolver. Non-fatal problems are
// collected in the Report:
//
//	gen := compositor.NewGenerator(cfg, canvas.NewPainter(), resolver, props)
//	report, err := gen.Generate(ctx, book, recipes)
package compositor
