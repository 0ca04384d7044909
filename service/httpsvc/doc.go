/*
Package httpsvc implements service.Service over the panel's HTTP API.

Every resource is served below {baseURL}/api/{endpoint}:

	GET    /{endpoint}?page=&sort_by=&sort_order=[&per_page=]
	GET    /{endpoint}/pesquisarpor/{field}/{value}/{relationship}?page=&sort_by=&sort_order=
	GET    /{endpoint}/{id}
	POST   /{endpoint}
	PUT    /{endpoint}/{id}
	PATCH  /{endpoint}/{id}      {"field": ..., "value": ...}
	DELETE /{endpoint}/{id}

Write payloads are cleaned of empty values first. Payloads holding a File,
or written with WriteOptions.Multipart, go out as multipart/form-data; a
multipart update is a POST carrying _method=PUT.

Non-2xx answers become *errors.APIError, failures without an answer
*errors.NetworkError. GET requests are retried on both while the retry
budget lasts.
*/
package httpsvc
