// Package artifact implements the network-fetch fallback for the model cache.
//
// Model weights live in an S3-compatible bucket (MinIO in our deployments)
// under "<prefix>/<model-name>/...". At startup, when MODEL_CACHE_DIR does not
// already contain the configured model, the store downloads the model's files
// into the cache before the model holder loads them. Deployments that bake or
// pre-fetch the cache never hit the network at startup.
//
// The store is optional: with no ARTIFACT_ENDPOINT configured, NewStore
// returns nil and a cache miss becomes a fatal model-load error.
package artifact
