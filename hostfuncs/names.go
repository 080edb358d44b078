package hostfuncs

// Host module names.
const (
	ModuleHTTP   = "blockless_http"
	ModuleMemory = "blockless_memory"
	ModuleCGI    = "blockless_cgi"
	ModuleSocket = "blockless_socket"
	ModuleLLM    = "blockless_llm"
	ModuleRPC    = "bless"
	ModuleCrawl  = "bless_crawl"
)

// blockless_http functions.
const (
	FuncHTTPRequest    = "http_req"
	FuncHTTPReadHeader = "http_read_header"
	FuncHTTPReadBody   = "http_read_body"
	FuncHTTPClose      = "http_close"
)

// blockless_memory functions.
const (
	FuncMemoryRead = "memory_read"
	FuncEnvVarRead = "env_var_read"
)

// blockless_cgi functions.
const (
	FuncCGIOpen       = "cgi_open"
	FuncCGIStdoutRead = "cgi_stdout_read"
	FuncCGIStderrRead = "cgi_stderr_read"
	FuncCGIStdinWrite = "cgi_stdin_write"
	FuncCGIClose      = "cgi_close"
	FuncCGIListExec   = "cgi_list_exec"
	FuncCGIListRead   = "cgi_list_read"
)

// blockless_socket functions.
const (
	FuncCreateTCPBindSocket = "create_tcp_bind_socket"
)

// blockless_llm functions.
const (
	FuncLLMSetModel     = "llm_set_model_request"
	FuncLLMGetModel     = "llm_get_model_response"
	FuncLLMSetOptions   = "llm_set_model_options_request"
	FuncLLMGetOptions   = "llm_get_model_options"
	FuncLLMPrompt       = "llm_prompt_request"
	FuncLLMReadResponse = "llm_read_prompt_response"
	FuncLLMClose        = "llm_close"
)

// bless functions.
const (
	FuncRPCCall = "rpc_call"
)

// bless_crawl functions.
const (
	FuncCrawlScrape = "scrape"
	FuncCrawlClose  = "close"
)
