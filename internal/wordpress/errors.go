// internal/wordpress/errors.go

package wordpress

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"

	apperr "docpub/internal/error"
)

// FaultCodeInvalidCredentials is the fault WordPress returns for a rejected
// username or application password.
const FaultCodeInvalidCredentials = 403

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedResponse  = errors.New("malformed XML-RPC response")
)

// FaultError is an XML-RPC fault returned by the server.
type FaultError struct {
	Code    int    `xmlrpc:"faultCode"`
	Message string `xmlrpc:"faultString"`
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("xml-rpc fault %d: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrInvalidCredentials) match a 403 fault.
func (e *FaultError) Is(target error) bool {
	return target == ErrInvalidCredentials && e.Code == FaultCodeInvalidCredentials
}

// TransportKind names the way an HTTP round trip failed.
type TransportKind string

const (
	KindDNS        TransportKind = "dns"
	KindConnection TransportKind = "connection"
	KindTLS        TransportKind = "tls"
	KindTimeout    TransportKind = "timeout"
	KindProtocol   TransportKind = "protocol"
)

// TransportError means the request never produced a usable XML-RPC reply.
type TransportError struct {
	Kind TransportKind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport (%s): %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// transportKind sorts a round-trip error into a TransportKind.
func transportKind(err error) TransportKind {
	var (
		dnsErr     *net.DNSError
		certErr    *tls.CertificateVerificationError
		unknownCA  x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
		recordErr  tls.RecordHeaderError
		netErr     net.Error
	)
	switch {
	case errors.As(err, &dnsErr):
		return KindDNS
	case errors.As(err, &certErr), errors.As(err, &unknownCA), errors.As(err, &hostErr),
		errors.As(err, &invalidErr), errors.As(err, &recordErr):
		return KindTLS
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	}
	return KindConnection
}

// Category names used for UnexpectedFailure.
const (
	CategoryRemoteFault       = "RemoteFault"
	CategoryMalformedResponse = "MalformedResponse"
	CategoryCanceled          = "Canceled"
	CategoryInternal          = apperr.DefaultCategory
)

// Classify maps a client error onto the application's closed error set.
// Authentication faults and transport failures have their own types; every
// other failure is unexpected and carries a category name for the user.
func Classify(err error) (apperr.ErrorType, string) {
	var (
		fault     *FaultError
		transport *TransportError
	)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return apperr.AuthFailure, ""
	case errors.As(err, &transport):
		return apperr.NetworkFailure, ""
	case errors.As(err, &fault):
		return apperr.UnexpectedFailure, CategoryRemoteFault
	case errors.Is(err, ErrMalformedResponse):
		return apperr.UnexpectedFailure, CategoryMalformedResponse
	case errors.Is(err, context.Canceled):
		return apperr.UnexpectedFailure, CategoryCanceled
	}
	return apperr.UnexpectedFailure, CategoryInternal
}
