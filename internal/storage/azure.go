package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/inkproof/galley/internal/projectconfig"
)

// Azure stores objects as blobs in a single container, authenticating with
// the default Azure credential chain (env vars, managed identity, az login).
type Azure struct {
	client    *azblob.Client
	container string
}

// NewAzure returns an Azure store for the given storage account and
// container. An empty container uses the project default.
func NewAzure(account, container string) (*Azure, error) {
	if account == "" {
		return nil, fmt.Errorf("azure storage requires an account name")
	}
	if container == "" {
		container = projectconfig.DefaultContainer
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("building azure credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", account)
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("building blob client for %q: %w", account, err)
	}

	return &Azure{client: client, container: container}, nil
}

func (a *Azure) Store(ctx context.Context, key string, data []byte) error {
	_, err := a.client.UploadBuffer(ctx, a.container, key, data, nil)
	if bloberror.HasCode(err, bloberror.ContainerNotFound) {
		if err = a.createContainer(ctx); err != nil {
			return err
		}
		_, err = a.client.UploadBuffer(ctx, a.container, key, data, nil)
	}
	if err != nil {
		return fmt.Errorf("uploading blob %q: %w", key, err)
	}
	return nil
}

func (a *Azure) Retrieve(ctx context.Context, key string) ([]byte, error) {
	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("downloading blob %q: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading blob %q: %w", key, err)
	}
	return data, nil
}

func (a *Azure) Exists(ctx context.Context, key string) (bool, error) {
	blob := a.client.ServiceClient().NewContainerClient(a.container).NewBlobClient(key)
	_, err := blob.GetProperties(ctx, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking blob %q: %w", key, err)
	}
	return true, nil
}

func (a *Azure) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteBlob(ctx, a.container, key, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("deleting blob %q: %w", key, err)
	}
	return nil
}

func (a *Azure) createContainer(ctx context.Context) error {
	_, err := a.client.CreateContainer(ctx, a.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("creating container %q: %w", a.container, err)
	}
	return nil
}
