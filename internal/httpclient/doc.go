// Package httpclient performs the probe's single request per client.
//
// [RequestBuilder] produces a bare GET against the configured target and
// [NewClient] returns a client with Go's default transport settings and no
// timeout. [Requester] ties them to a [Recorder]: each call sends one request
// and records its latency only when the response status is below 400.
//
//	builder, err := httpclient.NewRequestBuilder(cfg)
//	if err != nil {
//		return err
//	}
//	requester := httpclient.NewRequester(httpclient.NewClient(0), builder, collector, nil)
//	err = requester.Do(ctx)
//
// Error responses surface as [*StatusError]; transport failures are returned
// unchanged.
package httpclient
