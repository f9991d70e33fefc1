package objectstore

import "strings"

// URLResolver maps keys to public object URLs under a fixed prefix.
type URLResolver struct {
	prefix string
}

func NewURLResolver(prefix string) URLResolver {
	return URLResolver{prefix: strings.TrimRight(prefix, "/")}
}

// GCSPublicPrefix is the default public prefix of a GCS bucket.
func GCSPublicPrefix(bucket string) string {
	return "https://storage.googleapis.com/" + bucket
}

// S3PublicPrefix is the default virtual-hosted prefix of an S3 bucket.
func S3PublicPrefix(bucket, region string) string {
	return "https://" + bucket + ".s3." + region + ".amazonaws.com"
}

func (r URLResolver) ResolveURI(key string) string {
	return r.prefix + "/" + strings.TrimLeft(key, "/")
}
