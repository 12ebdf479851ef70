// Package live serves form definitions as server-validated forms over
// datastar.
//
// Every page load mounts a fresh [Session]: a form.Form with one control
// per field of the definition. The browser posts focus, blur, change and
// click events to the session; the handler dispatches them to the matching
// control and answers with element patches for the field and its
// dependents. Debounced and asynchronous validations complete later and
// reach the browser over the session's update stream.
//
// Routes, relative to the mount point:
//
//	GET    /                   mount a session and render the page
//	POST   /{session}/events   dispatch a field event
//	POST   /{session}/submit   run the submission protocol
//	GET    /{session}/stream   SSE stream of field state changes
//	DELETE /{session}          unmount the session
//
// Basic usage:
//
//	def, _ := formdef.Load("signup.yaml")
//	h := live.NewHandler(def, formdef.DefaultRules(),
//		live.WithBasePath("/signup"),
//		live.WithSubmitHandler(func(ctx context.Context, v live.Values) error {
//			return accounts.Create(ctx, v["email"], v["password"])
//		}),
//	)
//	r.Mount("/signup", h.Handle())
package live
