package aws

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrorKind is the provider-independent category of a failure.
type ErrorKind string

// Error kinds.
const (
	KindAuth              ErrorKind = "auth"
	KindConflict          ErrorKind = "conflict"
	KindInvalidParameter  ErrorKind = "invalid-parameter"
	KindQuota             ErrorKind = "quota"
	KindMissingDependency ErrorKind = "missing-dependency"
	KindTransient         ErrorKind = "transient"
	KindUnknown           ErrorKind = "unknown"
)

// ErrMissingDependency is returned when a step is asked to run before the
// identifier it consumes has been produced.
var ErrMissingDependency = errors.New("missing dependency")

var (
	authCodes = codeSet(
		"AuthFailure",
		"UnauthorizedOperation",
		"AccessDenied",
		"AccessDeniedException",
		"InvalidClientTokenId",
		"ExpiredToken",
		"ExpiredTokenException",
		"SignatureDoesNotMatch",
		"UnrecognizedClientException",
		"InvalidAccessKeyId",
		"OptInRequired",
	)

	conflictCodes = codeSet(
		"InvalidGroup.Duplicate",
		"InvalidPermission.Duplicate",
		"DBInstanceAlreadyExists",
		"DuplicateLoadBalancerName",
		"DuplicateTargetGroupName",
		"DuplicateListener",
		"AlreadyExists",
		"IdempotentParameterMismatch",
		"DependencyViolation",
		"ResourceInUse",
		"InvalidDBInstanceState",
	)

	invalidParameterCodes = codeSet(
		"InvalidParameter",
		"InvalidParameterValue",
		"InvalidParameterCombination",
		"InvalidParameterException",
		"MissingParameter",
		"InvalidAMIID.Malformed",
		"InvalidAMIID.NotFound",
		"InvalidAMIID.Unavailable",
		"InvalidSubnetID.NotFound",
		"InvalidSubnet",
		"InvalidVpcID.NotFound",
		"InvalidConfigurationRequest",
		"InvalidTarget",
		"InvalidSecurityGroup",
		"InvalidScheme",
		"ValidationError",
		"Unsupported",
		"UnsupportedProtocol",
	)

	quotaCodes = codeSet(
		"InstanceLimitExceeded",
		"VcpuLimitExceeded",
		"SecurityGroupLimitExceeded",
		"RulesPerSecurityGroupLimitExceeded",
		"InstanceQuotaExceeded",
		"StorageQuotaExceeded",
		"TooManyLoadBalancers",
		"TooManyTargetGroups",
		"TooManyListeners",
		"TooManyTargets",
		"TooManyRegistrationsForTargetId",
		"LimitExceeded",
		"ResourceLimitExceeded",
	)

	missingDependencyCodes = codeSet(
		"InvalidGroup.NotFound",
		"InvalidGroupId.Malformed",
		"InvalidInstanceID.NotFound",
		"DBInstanceNotFound",
		"LoadBalancerNotFound",
		"TargetGroupNotFound",
		"ListenerNotFound",
		"NoSuchBucket",
	)

	transientCodes = codeSet(
		"Throttling",
		"ThrottlingException",
		"RequestLimitExceeded",
		"RequestThrottled",
		"RequestThrottledException",
		"TooManyRequestsException",
		"ServiceUnavailable",
		"ServiceUnavailableException",
		"Unavailable",
		"InternalError",
		"InternalFailure",
		"RequestTimeout",
		"RequestTimeoutException",
		"InsufficientInstanceCapacity",
		"InsufficientDBInstanceCapacity",
		"PriorRequestNotComplete",
	)

	notFoundCodes = codeSet(
		"InvalidGroup.NotFound",
		"InvalidInstanceID.NotFound",
		"DBInstanceNotFound",
		"LoadBalancerNotFound",
		"TargetGroupNotFound",
		"ListenerNotFound",
		"NoSuchKey",
		"NotFound",
	)

	duplicateCodes = codeSet(
		"InvalidGroup.Duplicate",
		"InvalidPermission.Duplicate",
		"DBInstanceAlreadyExists",
		"DuplicateLoadBalancerName",
		"DuplicateTargetGroupName",
		"DuplicateListener",
		"AlreadyExists",
	)

	// Deletes blocked by a dependent resource that is still going away.
	inUseCodes = codeSet(
		"DependencyViolation",
		"ResourceInUse",
		"InvalidDBInstanceState",
		"ScalingActivityInProgress",
	)
)

func codeSet(codes ...string) map[string]bool {
	m := make(map[string]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}

// ErrorCode returns the provider error code carried by err, or "".
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func errorMessage(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorMessage()
	}
	return ""
}

// Classify maps an error to its ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrMissingDependency) {
		return KindMissingDependency
	}

	code := ErrorCode(err)
	switch {
	case code == "":
		// Not an API error: network failures and timeouts.
		if errors.Is(err, context.DeadlineExceeded) {
			return KindTransient
		}
		var netErr net.Error
		if errors.As(err, &netErr) {
			return KindTransient
		}
		return KindUnknown
	case authCodes[code]:
		return KindAuth
	case conflictCodes[code]:
		return KindConflict
	case quotaCodes[code]:
		return KindQuota
	case missingDependencyCodes[code]:
		return KindMissingDependency
	case transientCodes[code]:
		return KindTransient
	case code == "ValidationError" && isNotFoundMessage(errorMessage(err)):
		// Auto Scaling reports an unknown launch configuration this way.
		return KindMissingDependency
	case invalidParameterCodes[code]:
		return KindInvalidParameter
	default:
		return KindUnknown
	}
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	code := ErrorCode(err)
	if notFoundCodes[code] {
		return true
	}
	return code == "ValidationError" && isNotFoundMessage(errorMessage(err))
}

// IsDuplicate checks if an error indicates the resource already exists.
func IsDuplicate(err error) bool {
	return err != nil && duplicateCodes[ErrorCode(err)]
}

// IsRetryable checks if an error is worth retrying: throttling, service
// faults, and deletes blocked by dependents that are still going away.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return Classify(err) == KindTransient || inUseCodes[ErrorCode(err)]
}

func isNotFoundMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}
