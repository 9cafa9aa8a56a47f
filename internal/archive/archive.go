package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/retry"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/util"
)

// Store uploads a serialized report and validates it (HEAD with SAS, list
// otherwise). Returns the blob key.
func (a *Archiver) Store(ctx context.Context, report []byte, ts time.Time) (string, error) {
	if err := a.ensureContainer(ctx); err != nil {
		return "", fmt.Errorf("ensure container: %w", err)
	}

	prefix := a.prefix
	if prefix == "" {
		prefix = "backup-reports"
	}
	key := fmt.Sprintf("%s/%s.json", prefix, ts.UTC().Format("2006-01-02T15-04-05Z"))
	sum := util.SHA256Bytes(report)
	size := int64(len(report))

	upStart := time.Now()
	upAttempt := 0
	uploadOnce := func(ctx context.Context) error {
		upAttempt++
		log.Debug().
			Str("action", "archive_upload").
			Str("container", a.container).
			Str("key", key).
			Int("attempt", upAttempt).
			Msg("starting attempt")

		_, err := a.client.UploadBuffer(ctx, a.container, key, report, &azblob.UploadBufferOptions{
			Metadata: map[string]*string{"sha256": to.Ptr(sum)},
		})
		if err != nil {
			log.Debug().Err(err).Str("action", "archive_upload").Str("container", a.container).Str("key", key).
				Int("attempt", upAttempt).Msg("attempt failed")
			return err
		}

		log.Debug().Str("action", "archive_upload").Str("container", a.container).Str("key", key).
			Int("attempt", upAttempt).Msg("attempt succeeded")
		return nil
	}
	if err := retry.Do(ctx, a.ro, a.isAzRetryable, uploadOnce); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	log.Info().Str("action", "archive_upload").Str("container", a.container).Str("key", key).
		Int("attempts", upAttempt).Dur("elapsed_ms", time.Since(upStart)).Msg("upload OK")

	// Post-upload validation.
	if a.authViaSAS {
		headStart := time.Now()
		headAttempt := 0
		headOnce := func(ctx context.Context) error {
			headAttempt++
			log.Debug().Str("action", "archive_head").Str("container", a.container).Str("key", key).
				Int("attempt", headAttempt).Msg("starting attempt")

			remoteSize, remoteSHA, err := a.headSizeAndSHA(ctx, key)
			if err != nil {
				log.Debug().Err(err).Str("action", "archive_head").Str("container", a.container).Str("key", key).
					Int("attempt", headAttempt).Msg("attempt failed")
				return err
			}
			if remoteSize != size {
				return fmt.Errorf("size mismatch: local=%d, remote=%d", size, remoteSize)
			}
			if remoteSHA == "" {
				return fmt.Errorf("missing metadata: sha256")
			}
			if remoteSHA != sum {
				return fmt.Errorf("sha256 mismatch: local=%s, remote=%s", sum, remoteSHA)
			}
			return nil
		}
		if err := retry.Do(ctx, a.ro, a.isAzRetryable, headOnce); err != nil {
			return "", fmt.Errorf("validate (head): %w", err)
		}
		log.Info().Str("action", "archive_head").Str("container", a.container).Str("key", key).
			Int("attempts", headAttempt).Dur("elapsed_ms", time.Since(headStart)).
			Msg("validation OK (sha256 & size)")
	} else {
		listStart := time.Now()
		listAttempt := 0
		validateOnce := func(ctx context.Context) error {
			listAttempt++
			log.Debug().Str("action", "archive_list_validate").Str("container", a.container).Str("key", key).
				Int("attempt", listAttempt).Msg("starting attempt")

			found, remoteSize, err := a.validateSizeByList(ctx, key)
			if err != nil {
				log.Debug().Err(err).Str("action", "archive_list_validate").Str("container", a.container).Str("key", key).
					Int("attempt", listAttempt).Msg("attempt failed")
				return err
			}
			if !found {
				return fmt.Errorf("uploaded blob not found at %q", key)
			}
			if remoteSize != size {
				return fmt.Errorf("size mismatch: local=%d, remote=%d", size, remoteSize)
			}
			return nil
		}
		if err := retry.Do(ctx, a.ro, a.isAzRetryable, validateOnce); err != nil {
			return "", fmt.Errorf("validate (list): %w", err)
		}
		log.Info().Str("action", "archive_list_validate").Str("container", a.container).Str("key", key).
			Int("attempts", listAttempt).Dur("elapsed_ms", time.Since(listStart)).Msg("validation OK (size)")
	}

	return key, nil
}
