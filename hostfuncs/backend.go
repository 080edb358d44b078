package hostfuncs

// Every backend method mirrors one host import. Codes are the raw status
// values the guest receives: zero on success, a family-specific code
// otherwise. Output buffers are owned by the caller and may be shorter
// than the data available; streamed reads report zero bytes at the end.

// HTTP serves the blockless_http module.
type HTTP interface {
	// Request opens a request described by the JSON options document.
	Request(url, opts []byte) (handle, status, code uint32)
	ReadHeader(handle uint32, name, buf []byte) (n, code uint32)
	ReadBody(handle uint32, buf []byte) (n, code uint32)
	Close(handle uint32) (code uint32)
}

// Memory serves the blockless_memory module. Codes are errno values.
type Memory interface {
	// ReadStdin copies the guest's stdin document from offset zero.
	ReadStdin(buf []byte) (n, errno uint32)
	// ReadEnv copies the guest's environment document from offset zero.
	ReadEnv(buf []byte) (n, errno uint32)
}

// CGI serves the blockless_cgi module.
type CGI interface {
	Open(command []byte) (handle, code uint32)
	ReadStdout(handle uint32, buf []byte) (n, code uint32)
	ReadStderr(handle uint32, buf []byte) (n, code uint32)
	WriteStdin(handle uint32, data []byte) (n, code uint32)
	Close(handle uint32) (code uint32)
	ListExec() (handle, code uint32)
	ListRead(handle uint32, buf []byte) (n, code uint32)
}

// Socket serves the blockless_socket module.
type Socket interface {
	CreateTCPBind(addr []byte) (fd, code uint32)
}

// LLM serves the blockless_llm module. Buffers are at most 255 bytes for
// model names and 65535 bytes for options and prompts.
type LLM interface {
	// SetModel receives the guest's current handle (zero for a new
	// session) and returns the handle to use from then on.
	SetModel(handle uint32, model []byte) (newHandle, code uint32)
	GetModel(handle uint32, buf []byte) (n, code uint32)
	SetOptions(handle uint32, opts []byte) (code uint32)
	GetOptions(handle uint32, buf []byte) (n, code uint32)
	Prompt(handle uint32, prompt []byte) (code uint32)
	ReadResponse(handle uint32, buf []byte) (n, code uint32)
	Close(handle uint32) (code uint32)
}

// RPC serves the bless module.
type RPC interface {
	// Call handles one JSON-RPC request and writes the response into resp.
	// n may exceed len(resp) when the response did not fit.
	Call(req, resp []byte) (n, code uint32)
}

// Crawl serves the bless_crawl module.
type Crawl interface {
	// Scrape receives the guest's current handle and returns the handle to
	// use from then on. n may exceed len(result) when the document did not
	// fit.
	Scrape(handle uint32, url, opts, result []byte) (newHandle, n, code uint32)
	Close(handle uint32) (code uint32)
}

// Backends is the full set of capability backends. A nil field means the
// capability is not provided.
type Backends struct {
	HTTP   HTTP
	Memory Memory
	CGI    CGI
	Socket Socket
	LLM    LLM
	RPC    RPC
	Crawl  Crawl
}
