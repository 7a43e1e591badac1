// Package api provides the remote completion client.
//
// # Architecture
//
//   - client.go: Completer interface and factory function (NewClient)
//   - completion.go: Completions endpoint client built on resty
//
// The client sends one request per call with fixed sampling parameters
// (temperature 0, max_tokens 300, stop "#") and returns the first choice's
// text as-is. Normalizing the text is the caller's job.
//
// # Usage
//
//	cfg := config.NewConfig()
//	cfg.Validate()
//	client, err := api.NewClient(cfg, token, logger)
//	if err != nil {
//	    // handle error
//	}
//	text, err := client.Complete(ctx, prompt.Initialize("list s3 buckets"))
//
// # Errors
//
// A response without choices yields ErrNoChoices. Non-2xx responses yield
// *APIError carrying the status code and the provider's message when one is
// present. Requests are never retried.
package api
