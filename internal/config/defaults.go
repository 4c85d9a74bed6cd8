package config

const (
	defaultLogDir              = "."
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 60
	defaultCombinePrefix       = "M"
	defaultCombineSize         = "872x480"
	defaultCombineCodec        = "mpeg4"
	defaultCombineOutputName   = "combined_video.mp4"
	defaultStitchPrefix        = "IMG_"
	defaultStitchBucketCount   = 15
	defaultStitchFrameRate     = 2
	defaultStitchCodec         = "mjpeg"
	defaultOverlayWidth        = 640
	defaultOverlayHeight       = 48
	defaultEncoderBinary       = "ffmpeg"
	defaultEncoderQuality      = 2
	defaultEncoderRetryDelay   = 2
	defaultStagingMaxAgeHours  = 24
	defaultJournalDatabaseName = "history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:             defaultLogDir,
			StagingDir:         defaultStagingDir(),
			StagingMaxAgeHours: defaultStagingMaxAgeHours,
		},
		Combine: Combine{
			Prefix:     defaultCombinePrefix,
			Extensions: []string{"mpg", "MPG"},
			Size:       defaultCombineSize,
			Codec:      defaultCombineCodec,
			OutputName: defaultCombineOutputName,
		},
		Stitch: Stitch{
			Prefix:        defaultStitchPrefix,
			Extensions:    []string{"JPG", "jpg"},
			BucketCount:   defaultStitchBucketCount,
			FrameRate:     defaultStitchFrameRate,
			Codec:         defaultStitchCodec,
			OverlayWidth:  defaultOverlayWidth,
			OverlayHeight: defaultOverlayHeight,
		},
		Encoder: Encoder{
			Binary:            defaultEncoderBinary,
			Quality:           defaultEncoderQuality,
			RetryDelaySeconds: defaultEncoderRetryDelay,
		},
		Walk: Walk{
			Sorted: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
			Verbose:       false,
		},
	}
}
