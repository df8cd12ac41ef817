package config

func NewAuthForTest(apiKey, sessionPath string) *Auth {
	return &Auth{
		apiKey:      apiKey,
		sessionPath: sessionPath,
	}
}

func NewGeminiForTest(model, projectID, location string) *Gemini {
	return &Gemini{
		model:     model,
		projectID: projectID,
		location:  location,
	}
}

func NewPipelineForTest(path, mode string) *Pipeline {
	return &Pipeline{
		path: path,
		mode: mode,
	}
}

func NewSlackForTest(botToken, signingSecret string) *Slack {
	return &Slack{
		botToken:      botToken,
		signingSecret: signingSecret,
	}
}

func NewRepositoryForTest(backend, dir string) *Repository {
	return &Repository{
		backend:   backend,
		badgerDir: dir,
	}
}

func NewArchiveForTest(backend, bucket string) *Archive {
	return &Archive{
		backend: backend,
		bucket:  bucket,
	}
}

var NewHandler = newHandler
