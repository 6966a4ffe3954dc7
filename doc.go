// Package simpledi provides a small runtime object registry that lazily builds
// instances from their primary constructors and shares them according to one
// of four scopes.
//
// # Quick Start
//
// Declare how a type is built, then declare an injection site and read it:
//
//	simpledi.MustProvide(func() *Config { return &Config{Port: 8080} })
//	simpledi.MustProvide(func(cfg *Config) *Server { return &Server{cfg: cfg} })
//
//	type App struct {
//	    server *simpledi.Injection[*Server]
//	}
//
//	app := &App{}
//	app.server = simpledi.Inject[*Server](app, simpledi.Runtime)
//	srv, err := app.server.Get(ctx)
//
// # Scopes
//
//	simpledi.Runtime   // one instance per registry
//	simpledi.Thread    // one instance per execution context
//	simpledi.Instance  // one instance per injection site
//	simpledi.Request   // a new instance on every read
//
// Runtime and Thread are shared scopes: their instances are stored in the
// registry and reused by every injection site of that registry. Instance and
// Request instances are never stored.
//
// Go has no goroutine identity, so Thread scope partitions on an execution
// context attached to a context.Context:
//
//	ctx := simpledi.WithExecutionContext(context.Background())
//	go func() {
//	    ctx := simpledi.WithExecutionContext(ctx) // a new partition
//	    foo := site.MustGet(ctx)
//	}()
//
// # Constructors
//
// The primary constructor of a type comes from the Descriptor of the registry,
// DefaultTypes unless WithDescriptor says otherwise. Types knows three kinds:
//
//	types.Provide(NewDatabase)                // func(deps...) T or (T, error)
//	simpledi.Bind[Repository, *SQLRepo](types) // interface to implementation
//
//	type Handler struct {                     // tagged struct fields
//	    DB    *Database `inject:""`
//	    Cache *Cache    `inject:",optional"`
//	}
//
// Parameters are resolved recursively with the scope of the outer request.
// An optional parameter that cannot be resolved is left to the constructor's
// default; a required one fails the whole construction:
//
//	func NewMailer(t simpledi.Optional[Transport]) *Mailer {
//	    return &Mailer{transport: t.OrElse(stdoutTransport{})}
//	}
//
// # Registry
//
// Requests are matched by subtype: a stored *SQLRepo satisfies a request for
// Repository. Instances can be seeded manually; registration never replaces
// an instance that is already stored:
//
//	r := simpledi.NewRegistry(simpledi.WithDescriptor(types))
//	_ = simpledi.Register[Repository](r, repo, simpledi.Runtime, "")
//	ok, _ := simpledi.HasMatch[Repository](r, simpledi.Runtime, "")
//
// Every registry stores itself, so constructors may ask for *simpledi.Registry.
//
// # Errors
//
// Failures are *Error values with a code:
//
//	simpledi.IsNoConstructor(err)        // type has no usable constructor
//	simpledi.IsUnresolvedDependency(err) // a required parameter failed
//	simpledi.IsConstructionFailed(err)   // the constructor itself failed
//
// Failed constructions are never stored; the next read tries again.
//
// # Observers
//
//	r := simpledi.NewRegistry(
//	    simpledi.WithLogger(logger),
//	    simpledi.WithResolveObserver(func(typ string, s simpledi.Scope, d time.Duration, err error) {
//	        metrics.RecordResolve(typ, s, d, err)
//	    }),
//	)
//
// # Debug Visualization
//
//	r.PrintGraph()    // ASCII to stdout
//	r.PrintGraphDOT() // Graphviz DOT to stdout
package simpledi
