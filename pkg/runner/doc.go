/*
Package runner implements the headless editing loop for the kinmap editor.

It acts as the bridge between the Editor and a host process driving it over
a stream: commands come in one JSON object per line, responses go out the
same way. Embedding hosts (an Electron shell, a test harness, another
service) use this to edit genograms without linking Go code.

# Usage

	r := runner.New(editor,
		runner.WithHandler(runner.NewJSONHandler(os.Stdin, os.Stdout)),
		runner.WithStore(store, "case-42"),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
